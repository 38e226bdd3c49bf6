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

type PrescriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PrescriptionMapper
}

func NewPrescriptionRepository(db *gorm.DB) contract.PrescriptionRepository {
	return &PrescriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPrescriptionMapper(),
	}
}

func (r *PrescriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PrescriptionRepositoryImpl) Create(ctx context.Context, prescription *entity.Prescription) error {
	modelPrescription := r.mapper.ToModel(prescription)
	if err := r.db.WithContext(ctx).Create(modelPrescription).Error; err != nil {
		return err
	}
	medicines := prescription.Medicines
	*prescription = *r.mapper.ToEntity(modelPrescription)
	prescription.Medicines = medicines
	return nil
}

func (r *PrescriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("prescription_id = ?", id).Delete(&model.Medicine{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Prescription{}).Error
}

func (r *PrescriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Prescription, error) {
	var modelPrescription model.Prescription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelPrescription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	prescription := r.mapper.ToEntity(&modelPrescription)

	medicines, err := r.FindMedicines(ctx, prescription.Id)
	if err != nil {
		return nil, err
	}
	prescription.Medicines = medicines

	return prescription, nil
}

func (r *PrescriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Prescription, error) {
	var modelPrescriptions []*model.Prescription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelPrescriptions).Error; err != nil {
		return nil, err
	}

	prescriptions := r.mapper.ToEntities(modelPrescriptions)
	for _, p := range prescriptions {
		medicines, err := r.FindMedicines(ctx, p.Id)
		if err != nil {
			return nil, err
		}
		p.Medicines = medicines
	}

	return prescriptions, nil
}

func (r *PrescriptionRepositoryImpl) CreateMedicine(ctx context.Context, medicine *entity.Medicine) error {
	modelMedicine := r.mapper.MedicineToModel(medicine)
	if err := r.db.WithContext(ctx).Create(modelMedicine).Error; err != nil {
		return err
	}
	*medicine = *r.mapper.MedicineToEntity(modelMedicine)
	return nil
}

func (r *PrescriptionRepositoryImpl) FindMedicines(ctx context.Context, prescriptionId uuid.UUID) ([]*entity.Medicine, error) {
	var modelMedicines []*model.Medicine
	err := r.db.WithContext(ctx).
		Where("prescription_id = ?", prescriptionId).
		Order("created_at ASC").
		Find(&modelMedicines).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.MedicinesToEntities(modelMedicines), nil
}
