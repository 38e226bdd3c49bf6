package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"medvault-be/internal/config"
	"medvault-be/internal/constant"
	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/aiparse"
	"medvault-be/pkg/embedding"
	"medvault-be/pkg/events"
	"medvault-be/pkg/filestore"
	pktNats "medvault-be/pkg/nats"
	"medvault-be/pkg/secret"
	"medvault-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IParserConsumerService interface {
	Consume(ctx context.Context) error
}

type parserConsumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	store             *filestore.Store
	aiConfig          config.AIConfig
	embeddingProvider embedding.Provider
	notifications     INotificationService
	eventPublisher    *pktNats.Publisher
	keyEncryptor      *secret.Encryptor
}

func NewParserConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	store *filestore.Store,
	aiConfig config.AIConfig,
	embeddingProvider embedding.Provider,
	notifications INotificationService,
	eventPublisher *pktNats.Publisher,
	keyEncryptor *secret.Encryptor,
) IParserConsumerService {
	return &parserConsumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		store:             store,
		aiConfig:          aiConfig,
		embeddingProvider: embeddingProvider,
		notifications:     notifications,
		eventPublisher:    eventPublisher,
		keyEncryptor:      keyEncryptor,
	}
}

func (cs *parserConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *parserConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishParseDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal parse message: %v", err)
		msg.Ack() // malformed messages never become valid; drop them
		return
	}

	log.Printf("[INFO] Parsing document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack()
		return
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: doc.UserId})
	if err != nil || user == nil {
		log.Printf("[ERROR] Failed to load owner of document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if user.OpenRouterApiKey == nil || *user.OpenRouterApiKey == "" {
		log.Printf("[WARN] User %s has no API key; marking document %s failed", user.Id, doc.Id)
		cs.persistFailure(ctx, doc, "no API key configured")
		cs.notifyParsed(ctx, doc, entity.ParsingStatusFailed)
		msg.Ack()
		return
	}

	fileContent, err := cs.store.Read(doc.FilePath)
	if err != nil {
		log.Printf("[ERROR] Failed to read file for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}
	isPdf := doc.FileType == entity.FileTypePdf

	apiKey, err := cs.keyEncryptor.Decrypt(*user.OpenRouterApiKey)
	if err != nil {
		log.Printf("[WARN] Stored API key of user %s is unreadable; marking document %s failed", user.Id, doc.Id)
		cs.persistFailure(ctx, doc, "stored API key is unreadable, set it again")
		cs.notifyParsed(ctx, doc, entity.ParsingStatusFailed)
		msg.Ack()
		return
	}

	client := aiparse.NewClient(cs.aiConfig.OpenRouterURL, apiKey, cs.aiConfig.DefaultModel)

	documentType := doc.DocumentType
	if documentType == "" {
		detected, err := client.Classify(ctx, constant.DocumentTypeDetectionPrompt, fileContent, isPdf)
		if err != nil {
			log.Printf("[WARN] Type detection failed for document %s: %v", doc.Id, err)
		}
		if detected == entity.DocumentTypeMedicalReport {
			documentType = entity.DocumentTypeMedicalReport
		} else {
			// Unknown classifications fall back to the prescription parser.
			documentType = entity.DocumentTypePrescription
		}
	}

	prompt := constant.PrescriptionParsePrompt
	if documentType == entity.DocumentTypeMedicalReport {
		prompt = constant.MedicalReportParsePrompt
	}

	parsed, err := client.ParseJSON(ctx, prompt, fileContent, isPdf)
	if err != nil {
		log.Printf("[ERROR] Parsing failed for document %s: %v", doc.Id, err)
		doc.DocumentType = documentType
		cs.persistFailure(ctx, doc, err.Error())
		cs.notifyParsed(ctx, doc, entity.ParsingStatusFailed)
		msg.Ack() // the model rejected the document; retrying won't help
		return
	}

	doc.DocumentType = documentType
	status, err := cs.persistParsed(ctx, doc, parsed)
	if err != nil {
		log.Printf("[ERROR] Failed to persist parse results for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document %s parsed as %s (%s)", doc.Id, documentType, status)
	cs.notifyParsed(ctx, doc, status)
	msg.Ack()
}

// persistFailure records a failed parse so the client can show the outcome.
func (cs *parserConsumerService) persistFailure(ctx context.Context, doc *entity.Document, reason string) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	raw := map[string]interface{}{"error": reason}

	if doc.DocumentType != "" {
		if err := uow.DocumentRepository().UpdateDocumentType(ctx, doc.Id, doc.DocumentType); err != nil {
			log.Printf("[ERROR] Failed to update document type: %v", err)
		}
	}

	if doc.DocumentType == entity.DocumentTypeMedicalReport {
		report := &entity.MedicalReport{
			Id:            uuid.New(),
			DocumentId:    doc.Id,
			PatientId:     doc.PatientId,
			RawParsedData: raw,
			ParsingStatus: entity.ParsingStatusFailed,
			CreatedAt:     time.Now(),
		}
		if err := uow.MedicalReportRepository().Create(ctx, report); err != nil {
			log.Printf("[ERROR] Failed to store failed report: %v", err)
		}
		return
	}

	prescription := &entity.Prescription{
		Id:            uuid.New(),
		DocumentId:    doc.Id,
		PatientId:     doc.PatientId,
		RawParsedData: raw,
		ParsingStatus: entity.ParsingStatusFailed,
		CreatedAt:     time.Now(),
	}
	if err := uow.PrescriptionRepository().Create(ctx, prescription); err != nil {
		log.Printf("[ERROR] Failed to store failed prescription: %v", err)
	}
}

func (cs *parserConsumerService) persistParsed(ctx context.Context, doc *entity.Document, parsed map[string]interface{}) (string, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().UpdateDocumentType(ctx, doc.Id, doc.DocumentType); err != nil {
		return "", err
	}
	if name := stringField(parsed, "suggested_file_name"); name != nil {
		if err := uow.DocumentRepository().UpdateDisplayName(ctx, doc.Id, *name); err != nil {
			return "", err
		}
	}

	var status string
	var err error
	if doc.DocumentType == entity.DocumentTypeMedicalReport {
		status, err = cs.persistReport(ctx, uow, doc, parsed)
	} else {
		status, err = cs.persistPrescription(ctx, uow, doc, parsed)
	}
	if err != nil {
		return "", err
	}
	return status, uow.Commit()
}

func (cs *parserConsumerService) persistPrescription(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, parsed map[string]interface{}) (string, error) {
	status := entity.ParsingStatusCompleted
	if _, hasErr := parsed["error"]; hasErr {
		status = entity.ParsingStatusPartial
	}

	prescription := &entity.Prescription{
		Id:               uuid.New(),
		DocumentId:       doc.Id,
		PatientId:        doc.PatientId,
		PrescriptionDate: dateField(parsed, "prescription_date"),
		Diagnosis:        stringField(parsed, "diagnosis"),
		Notes:            stringField(parsed, "additional_notes"),
		RawParsedData:    parsed,
		ParsingStatus:    status,
		CreatedAt:        time.Now(),
	}
	if doctor, ok := parsed["doctor"].(map[string]interface{}); ok {
		prescription.DoctorName = stringField(doctor, "name")
		prescription.DoctorTitle = stringField(doctor, "title")
		prescription.DoctorSpecialty = stringField(doctor, "specialty")
		prescription.DoctorDegree = stringField(doctor, "degree")
	}
	if hospital, ok := parsed["hospital"].(map[string]interface{}); ok {
		prescription.HospitalName = stringField(hospital, "name")
		prescription.HospitalAddress = stringField(hospital, "address")
	}

	if err := uow.PrescriptionRepository().Create(ctx, prescription); err != nil {
		return "", err
	}

	medicines, _ := parsed["medicines"].([]interface{})
	for _, raw := range medicines {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		name := stringField(item, "name")
		if name == nil {
			continue
		}
		medicine := &entity.Medicine{
			Id:             uuid.New(),
			PrescriptionId: prescription.Id,
			Name:           *name,
			Dosage:         stringField(item, "dosage"),
			Frequency:      stringField(item, "frequency"),
			WhenToTake:     stringField(item, "timing"),
			DurationDays:   intField(item, "duration_days"),
			Instructions:   stringField(item, "instructions"),
			CreatedAt:      time.Now(),
		}
		if err := uow.PrescriptionRepository().CreateMedicine(ctx, medicine); err != nil {
			return "", err
		}
	}

	return status, nil
}

func (cs *parserConsumerService) persistReport(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, parsed map[string]interface{}) (string, error) {
	status := entity.ParsingStatusCompleted
	if _, hasErr := parsed["error"]; hasErr {
		status = entity.ParsingStatusPartial
	}

	report := &entity.MedicalReport{
		Id:              uuid.New(),
		DocumentId:      doc.Id,
		PatientId:       doc.PatientId,
		ReportType:      stringField(parsed, "report_type"),
		ReportTitle:     stringField(parsed, "report_title"),
		ReportDate:      dateField(parsed, "report_date"),
		TechnicianName:  stringField(parsed, "technician_name"),
		ReferringDoctor: stringField(parsed, "referring_doctor"),
		Findings:        stringField(parsed, "findings"),
		Conclusion:      stringField(parsed, "conclusion"),
		Recommendations: stringField(parsed, "recommendations"),
		ParsedText:      stringField(parsed, "full_text"),
		Summary:         stringField(parsed, "summary"),
		RawParsedData:   parsed,
		ParsingStatus:   status,
		CreatedAt:       time.Now(),
	}
	if lab, ok := parsed["lab"].(map[string]interface{}); ok {
		report.LabName = stringField(lab, "name")
		report.LabAddress = stringField(lab, "address")
	}
	if results, ok := parsed["test_results"].(map[string]interface{}); ok {
		report.TestResults = results
	}

	if err := uow.MedicalReportRepository().Create(ctx, report); err != nil {
		return "", err
	}

	if err := cs.embedReport(ctx, uow, report); err != nil {
		// Search indexing is best-effort; the report itself is stored.
		log.Printf("[WARN] Failed to embed report %s: %v", report.Id, err)
		status = entity.ParsingStatusPartial
	}

	return status, nil
}

func (cs *parserConsumerService) embedReport(ctx context.Context, uow unitofwork.UnitOfWork, report *entity.MedicalReport) error {
	if cs.embeddingProvider == nil {
		return nil
	}

	content := reportText(report)
	if content == "" {
		return nil
	}

	chunks := utils.SplitText(content, 1500, 200)
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("generate embedding for chunk %d: %w", i, err)
		}
		emb := &entity.ReportEmbedding{
			Id:         uuid.New(),
			ReportId:   report.Id,
			PatientId:  report.PatientId,
			Document:   chunk,
			Embedding:  res.Values,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		}
		if err := uow.MedicalReportRepository().CreateEmbedding(ctx, emb); err != nil {
			return err
		}
	}
	return nil
}

// reportText assembles the searchable text for a report.
func reportText(report *entity.MedicalReport) string {
	var content string
	if report.ReportTitle != nil {
		content += "Report: " + *report.ReportTitle + "\n"
	}
	if report.ParsedText != nil {
		content += *report.ParsedText + "\n"
	}
	if report.Summary != nil {
		content += *report.Summary
	}
	return content
}

// notifyParsed announces the outcome. With a NATS bus the notification
// service picks the event up from its subscription; without one, the hub is
// told directly.
func (cs *parserConsumerService) notifyParsed(ctx context.Context, doc *entity.Document, status string) {
	if cs.eventPublisher != nil {
		event := events.NewDocumentParsed(doc.Id.String(), doc.UserId.String(), status)
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_PARSED event: %v", err)
		}
		return
	}
	if cs.notifications != nil {
		cs.notifications.NotifyDocumentParsed(doc.UserId, doc.Id, status)
	}
}

func stringField(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func intField(m map[string]interface{}, key string) *int {
	if v, ok := m[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func dateField(m map[string]interface{}, key string) *time.Time {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
