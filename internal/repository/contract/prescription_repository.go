package contract

import (
	"context"

	"medvault-be/internal/entity"
	"medvault-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Prescription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Prescription, error)

	CreateMedicine(ctx context.Context, medicine *entity.Medicine) error
	FindMedicines(ctx context.Context, prescriptionId uuid.UUID) ([]*entity.Medicine, error)
}
