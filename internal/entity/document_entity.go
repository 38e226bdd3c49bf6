package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds as stored in documents.file_type.
const (
	FileTypePdf     = "pdf"
	FileTypeImage   = "image"
	FileTypeUnknown = "unknown"
)

// Document types as stored in documents.document_type.
const (
	DocumentTypePrescription  = "prescription"
	DocumentTypeMedicalReport = "medical_report"
)

// Parsing statuses shared by prescriptions and medical reports.
const (
	ParsingStatusPending   = "pending"
	ParsingStatusCompleted = "completed"
	ParsingStatusPartial   = "partial"
	ParsingStatusFailed    = "failed"
)

type Document struct {
	Id           uuid.UUID
	PatientId    uuid.UUID
	UserId       uuid.UUID
	FileName     string
	DisplayName  *string
	FilePath     string
	FileType     string
	FileSize     int64
	DocumentType string
	UploadDate   time.Time
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
