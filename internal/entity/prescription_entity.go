package entity

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	Id               uuid.UUID
	DocumentId       uuid.UUID
	PatientId        uuid.UUID
	PrescriptionDate *time.Time
	DoctorName       *string
	DoctorTitle      *string
	DoctorSpecialty  *string
	DoctorDegree     *string
	HospitalName     *string
	HospitalAddress  *string
	Diagnosis        *string
	Notes            *string
	RawParsedData    map[string]interface{}
	ParsingStatus    string
	Medicines        []*Medicine
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

type Medicine struct {
	Id             uuid.UUID
	PrescriptionId uuid.UUID
	Name           string
	Dosage         *string
	Frequency      *string
	WhenToTake     *string
	DurationDays   *int
	Instructions   *string
	CreatedAt      time.Time
}
