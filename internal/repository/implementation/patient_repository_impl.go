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

type PatientRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientMapper
}

func NewPatientRepository(db *gorm.DB) contract.PatientRepository {
	return &PatientRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientMapper(),
	}
}

func (r *PatientRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PatientRepositoryImpl) Create(ctx context.Context, patient *entity.Patient) error {
	modelPatient := r.mapper.ToModel(patient)
	if err := r.db.WithContext(ctx).Create(modelPatient).Error; err != nil {
		return err
	}
	*patient = *r.mapper.ToEntity(modelPatient)
	return nil
}

func (r *PatientRepositoryImpl) Update(ctx context.Context, patient *entity.Patient) error {
	modelPatient := r.mapper.ToModel(patient)
	if err := r.db.WithContext(ctx).Save(modelPatient).Error; err != nil {
		return err
	}
	*patient = *r.mapper.ToEntity(modelPatient)
	return nil
}

func (r *PatientRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Patient{}).Error
}

func (r *PatientRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	var modelPatient model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelPatient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelPatient), nil
}

func (r *PatientRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error) {
	var modelPatients []*model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelPatients).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelPatients), nil
}

func (r *PatientRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Patient{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
