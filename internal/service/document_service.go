package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/events"
	"medvault-be/pkg/filestore"
	pktNats "medvault-be/pkg/nats"
	"medvault-be/pkg/pdfrender"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrPatientNotFound  = errors.New("patient not found")
)

const renderCacheTTL = 10 * time.Minute

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest, fileName string, data []byte) (*dto.UploadDocumentResponse, error)
	Get(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error)
	File(ctx context.Context, userId, documentId uuid.UUID) ([]byte, string, error)
	RenderPage(ctx context.Context, userId, documentId uuid.UUID, page, viewportW, viewportH int) ([]byte, error)
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          *filestore.Store
	pubSub         *gochannel.GoChannel
	parseTopic     string
	redisClient    *redis.Client
	eventPublisher *pktNats.Publisher
	pdfDecoder     pdfrender.Decoder
	imgDecoder     pdfrender.Decoder
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	store *filestore.Store,
	pubSub *gochannel.GoChannel,
	parseTopic string,
	redisClient *redis.Client,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		store:          store,
		pubSub:         pubSub,
		parseTopic:     parseTopic,
		redisClient:    redisClient,
		eventPublisher: eventPublisher,
		pdfDecoder:     pdfrender.NewFitzDecoder(),
		imgDecoder:     pdfrender.NewImageDecoder(),
	}
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest, fileName string, data []byte) (*dto.UploadDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := uow.PatientRepository().FindOne(ctx,
		specification.ByID{ID: req.PatientId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	relPath, fileType, err := s.store.Save(userId.String(), fileName, data)
	if err != nil {
		return nil, err
	}

	// An empty document type is filled in by the parsing pipeline once the
	// model has classified the file.
	doc := &entity.Document{
		Id:           uuid.New(),
		PatientId:    patient.Id,
		UserId:       userId,
		FileName:     fileName,
		FilePath:     relPath,
		FileType:     string(fileType),
		FileSize:     int64(len(data)),
		DocumentType: req.DocumentType,
		UploadDate:   time.Now(),
		CreatedAt:    time.Now(),
	}
	if req.Notes != "" {
		doc.Notes = &req.Notes
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		s.store.Delete(relPath)
		return nil, err
	}

	if err := s.publishParse(doc.Id, userId); err != nil {
		// The document is stored; parsing can be retried out of band.
		fmt.Printf("[WARN] Failed to queue parse for document %s: %v\n", doc.Id, err)
	}

	if s.eventPublisher != nil {
		event := events.NewDocumentUploaded(doc.Id.String(), patient.Id.String(), userId.String())
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_UPLOADED event: %v\n", err)
		}
	}

	return &dto.UploadDocumentResponse{
		Id:            doc.Id,
		FileName:      doc.FileName,
		FileType:      doc.FileType,
		DocumentType:  doc.DocumentType,
		ParsingStatus: entity.ParsingStatusPending,
	}, nil
}

func (s *documentService) publishParse(documentId, userId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishParseDocumentMessage{
		DocumentId: documentId,
		UserId:     userId,
	})
	if err != nil {
		return err
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	return s.pubSub.Publish(s.parseTopic, msg)
}

func (s *documentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, documentId uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, userId, documentId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwned(ctx, uow, userId, documentId)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentResponse{
		Id:           doc.Id,
		PatientId:    doc.PatientId,
		FileName:     doc.FileName,
		DisplayName:  doc.DisplayName,
		FileType:     doc.FileType,
		FileSize:     doc.FileSize,
		DocumentType: doc.DocumentType,
		UploadDate:   doc.UploadDate,
		Notes:        doc.Notes,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (s *documentService) File(ctx context.Context, userId, documentId uuid.UUID) ([]byte, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwned(ctx, uow, userId, documentId)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.Read(doc.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("read stored file: %w", err)
	}
	return data, filestore.ContentType(doc.FileName), nil
}

// RenderPage rasterizes one page of a stored document as PNG. Rendered
// pages are cached in Redis keyed by document, page and viewport.
func (s *documentService) RenderPage(ctx context.Context, userId, documentId uuid.UUID, page, viewportW, viewportH int) ([]byte, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwned(ctx, uow, userId, documentId)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("render:%s:%d:%dx%d", doc.Id, page, viewportW, viewportH)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			return cached, nil
		}
	}

	data, err := s.store.Read(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}

	dec := s.pdfDecoder
	if doc.FileType != entity.FileTypePdf {
		dec = s.imgDecoder
	}
	decoded, err := dec.Open(data)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	defer decoded.Close()

	if page < 1 {
		page = 1
	}
	if total := decoded.PageCount(); page > total {
		page = total
	}

	pw, ph, err := decoded.PageSize(page)
	if err != nil {
		return nil, err
	}
	img, err := decoded.RenderPage(page, pdfrender.RenderScale(pw, ph, viewportW, viewportH))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, cacheKey, buf.Bytes(), renderCacheTTL).Err(); err != nil {
			fmt.Printf("[WARN] Failed to cache rendered page: %v\n", err)
		}
	}
	return buf.Bytes(), nil
}
