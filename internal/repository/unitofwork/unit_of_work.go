package unitofwork

import (
	"context"

	"medvault-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PatientRepository() contract.PatientRepository
	DocumentRepository() contract.DocumentRepository
	PrescriptionRepository() contract.PrescriptionRepository
	MedicalReportRepository() contract.MedicalReportRepository
}
