package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPatient scopes documents/reports to one patient
type ByPatient struct {
	PatientID uuid.UUID
}

func (s ByPatient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ?", s.PatientID)
}

// ByDocumentType filters documents by their detected type
type ByDocumentType struct {
	DocumentType string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_type = ?", s.DocumentType)
}

// ByDocument scopes prescriptions/reports to their source document
type ByDocument struct {
	DocumentID uuid.UUID
}

func (s ByDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ByPrescription scopes medicines to one prescription
type ByPrescription struct {
	PrescriptionID uuid.UUID
}

func (s ByPrescription) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("prescription_id = ?", s.PrescriptionID)
}

// ByReport scopes embeddings to one medical report
type ByReport struct {
	ReportID uuid.UUID
}

func (s ByReport) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("report_id = ?", s.ReportID)
}
