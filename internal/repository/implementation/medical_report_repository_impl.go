package implementation

import (
	"context"
	"errors"

	"medvault-be/internal/entity"
	"medvault-be/internal/mapper"
	"medvault-be/internal/model"
	"medvault-be/internal/repository/contract"
	"medvault-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MedicalReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MedicalReportMapper
}

func NewMedicalReportRepository(db *gorm.DB) contract.MedicalReportRepository {
	return &MedicalReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewMedicalReportMapper(),
	}
}

func (r *MedicalReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MedicalReportRepositoryImpl) Create(ctx context.Context, report *entity.MedicalReport) error {
	modelReport := r.mapper.ToModel(report)
	if err := r.db.WithContext(ctx).Create(modelReport).Error; err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(modelReport)
	return nil
}

func (r *MedicalReportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteEmbeddingsByReport(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MedicalReport{}).Error
}

func (r *MedicalReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MedicalReport, error) {
	var modelReport model.MedicalReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelReport).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelReport), nil
}

func (r *MedicalReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error) {
	var modelReports []*model.MedicalReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelReports).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelReports), nil
}

func (r *MedicalReportRepositoryImpl) CreateEmbedding(ctx context.Context, embedding *entity.ReportEmbedding) error {
	return r.db.WithContext(ctx).Create(r.mapper.EmbeddingToModel(embedding)).Error
}

func (r *MedicalReportRepositoryImpl) DeleteEmbeddingsByReport(ctx context.Context, reportId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("report_id = ?", reportId).Delete(&model.ReportEmbedding{}).Error
}

func (r *MedicalReportRepositoryImpl) SearchSimilar(ctx context.Context, userId uuid.UUID, query []float32, limit int) ([]*entity.ReportEmbedding, error) {
	var modelEmbeddings []*model.ReportEmbedding

	// Cosine distance over chunks, scoped to the caller's patients.
	err := r.db.WithContext(ctx).
		Joins("JOIN patients ON patients.id = report_embeddings.patient_id").
		Where("patients.user_id = ?", userId).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "report_embeddings.embedding <=> ?",
			Vars: []interface{}{pgvector.NewVector(query)},
		}}).
		Limit(limit).
		Find(&modelEmbeddings).Error
	if err != nil {
		return nil, err
	}

	embeddings := make([]*entity.ReportEmbedding, len(modelEmbeddings))
	for i, e := range modelEmbeddings {
		embeddings[i] = r.mapper.EmbeddingToEntity(e)
	}
	return embeddings, nil
}
