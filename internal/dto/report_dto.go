package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchReportsRequest struct {
	Query string `json:"query" validate:"required,min=2"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchReportResult struct {
	ReportId       uuid.UUID  `json:"report_id"`
	DocumentId     uuid.UUID  `json:"document_id"`
	PatientId      uuid.UUID  `json:"patient_id"`
	ReportTitle    *string    `json:"report_title"`
	ReportType     *string    `json:"report_type"`
	Summary        *string    `json:"summary"`
	ReportDate     *time.Time `json:"report_date"`
	MatchedChunk   string     `json:"matched_chunk"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
}

type ParsedPrescriptionResponse struct {
	Id               uuid.UUID              `json:"id"`
	DocumentId       uuid.UUID              `json:"document_id"`
	PrescriptionDate *time.Time             `json:"prescription_date"`
	DoctorName       *string                `json:"doctor_name"`
	DoctorSpecialty  *string                `json:"doctor_specialty"`
	HospitalName     *string                `json:"hospital_name"`
	Diagnosis        *string                `json:"diagnosis"`
	Medicines        []MedicineResponse     `json:"medicines"`
	AdditionalNotes  *string                `json:"additional_notes"`
	ParsingStatus    string                 `json:"parsing_status"`
	RawParsedData    map[string]interface{} `json:"raw_parsed_data,omitempty"`
}

type MedicineResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Dosage       *string   `json:"dosage"`
	Frequency    *string   `json:"frequency"`
	WhenToTake   *string   `json:"when_to_take"`
	DurationDays *int      `json:"duration_days"`
	Instructions *string   `json:"instructions"`
}

type ParsedReportResponse struct {
	Id              uuid.UUID              `json:"id"`
	DocumentId      uuid.UUID              `json:"document_id"`
	ReportType      *string                `json:"report_type"`
	ReportTitle     *string                `json:"report_title"`
	ReportDate      *time.Time             `json:"report_date"`
	LabName         *string                `json:"lab_name"`
	ReferringDoctor *string                `json:"referring_doctor"`
	Findings        *string                `json:"findings"`
	Conclusion      *string                `json:"conclusion"`
	Recommendations *string                `json:"recommendations"`
	TestResults     map[string]interface{} `json:"test_results,omitempty"`
	Summary         *string                `json:"summary"`
	ParsingStatus   string                 `json:"parsing_status"`
}
