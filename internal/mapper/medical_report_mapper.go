package mapper

import (
	"time"

	"medvault-be/internal/entity"
	"medvault-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type MedicalReportMapper struct{}

func NewMedicalReportMapper() *MedicalReportMapper {
	return &MedicalReportMapper{}
}

func (m *MedicalReportMapper) ToEntity(r *model.MedicalReport) *entity.MedicalReport {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.MedicalReport{
		Id:              r.Id,
		DocumentId:      r.DocumentId,
		PatientId:       r.PatientId,
		ReportType:      r.ReportType,
		ReportTitle:     r.ReportTitle,
		ReportDate:      r.ReportDate,
		LabName:         r.LabName,
		LabAddress:      r.LabAddress,
		TechnicianName:  r.TechnicianName,
		ReferringDoctor: r.ReferringDoctor,
		Findings:        r.Findings,
		Conclusion:      r.Conclusion,
		Recommendations: r.Recommendations,
		TestResults:     jsonToMap(r.TestResults),
		ParsedText:      r.ParsedText,
		Summary:         r.Summary,
		RawParsedData:   jsonToMap(r.RawParsedData),
		ParsingStatus:   r.ParsingStatus,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *MedicalReportMapper) ToModel(r *entity.MedicalReport) *model.MedicalReport {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.MedicalReport{
		Id:              r.Id,
		DocumentId:      r.DocumentId,
		PatientId:       r.PatientId,
		ReportType:      r.ReportType,
		ReportTitle:     r.ReportTitle,
		ReportDate:      r.ReportDate,
		LabName:         r.LabName,
		LabAddress:      r.LabAddress,
		TechnicianName:  r.TechnicianName,
		ReferringDoctor: r.ReferringDoctor,
		Findings:        r.Findings,
		Conclusion:      r.Conclusion,
		Recommendations: r.Recommendations,
		TestResults:     mapToJSON(r.TestResults),
		ParsedText:      r.ParsedText,
		Summary:         r.Summary,
		RawParsedData:   mapToJSON(r.RawParsedData),
		ParsingStatus:   r.ParsingStatus,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *MedicalReportMapper) ToEntities(reports []*model.MedicalReport) []*entity.MedicalReport {
	entities := make([]*entity.MedicalReport, len(reports))
	for i, r := range reports {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *MedicalReportMapper) EmbeddingToEntity(e *model.ReportEmbedding) *entity.ReportEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ReportEmbedding{
		Id:         e.Id,
		ReportId:   e.ReportId,
		PatientId:  e.PatientId,
		Document:   e.Document,
		Embedding:  e.Embedding.Slice(),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *MedicalReportMapper) EmbeddingToModel(e *entity.ReportEmbedding) *model.ReportEmbedding {
	if e == nil {
		return nil
	}
	return &model.ReportEmbedding{
		Id:         e.Id,
		ReportId:   e.ReportId,
		PatientId:  e.PatientId,
		Document:   e.Document,
		Embedding:  pgvector.NewVector(e.Embedding),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}
