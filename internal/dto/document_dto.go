package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest carries the multipart form fields; the file itself
// arrives as the "file" part.
type UploadDocumentRequest struct {
	PatientId    uuid.UUID `json:"patient_id" validate:"required"`
	DocumentType string    `json:"document_type" validate:"omitempty,oneof=prescription medical_report"`
	Notes        string    `json:"notes" validate:"omitempty,max=2000"`
}

type UploadDocumentResponse struct {
	Id            uuid.UUID `json:"id"`
	FileName      string    `json:"file_name"`
	FileType      string    `json:"file_type"`
	DocumentType  string    `json:"document_type"`
	ParsingStatus string    `json:"parsing_status"`
}

type DocumentResponse struct {
	Id           uuid.UUID  `json:"id"`
	PatientId    uuid.UUID  `json:"patient_id"`
	FileName     string     `json:"file_name"`
	DisplayName  *string    `json:"display_name"`
	FileType     string     `json:"file_type"`
	FileSize     int64      `json:"file_size"`
	DocumentType string     `json:"document_type"`
	UploadDate   time.Time  `json:"upload_date"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// PublishParseDocumentMessage is the queue payload that triggers parsing of
// a freshly uploaded document.
type PublishParseDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	UserId     uuid.UUID `json:"user_id"`
}
