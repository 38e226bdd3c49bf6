package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalReport covers lab tests, X-rays, MRIs, blood tests and similar
// documents that carry findings rather than medicines.
type MedicalReport struct {
	Id              uuid.UUID
	DocumentId      uuid.UUID
	PatientId       uuid.UUID
	ReportType      *string
	ReportTitle     *string
	ReportDate      *time.Time
	LabName         *string
	LabAddress      *string
	TechnicianName  *string
	ReferringDoctor *string
	Findings        *string
	Conclusion      *string
	Recommendations *string
	TestResults     map[string]interface{}
	ParsedText      *string
	Summary         *string
	RawParsedData   map[string]interface{}
	ParsingStatus   string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ReportEmbedding is one embedded chunk of a report's searchable text.
type ReportEmbedding struct {
	Id         uuid.UUID
	ReportId   uuid.UUID
	PatientId  uuid.UUID
	Document   string
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
}
