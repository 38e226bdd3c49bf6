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
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	modelDoc := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(modelDoc).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(modelDoc)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *entity.Document) error {
	modelDoc := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(modelDoc).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(modelDoc)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var modelDoc model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelDoc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelDoc), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var modelDocs []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelDocs).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelDocs), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Document{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DocumentRepositoryImpl) UpdateDocumentType(ctx context.Context, id uuid.UUID, documentType string) error {
	return r.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", id).
		Update("document_type", documentType).Error
}

func (r *DocumentRepositoryImpl) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	return r.db.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", id).
		Update("display_name", displayName).Error
}
