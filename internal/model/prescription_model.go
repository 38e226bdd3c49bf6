package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Prescription struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	PatientId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	PrescriptionDate *time.Time `gorm:"type:date"`
	DoctorName       *string    `gorm:"type:varchar(255);index"`
	DoctorTitle      *string    `gorm:"type:varchar(100)"`
	DoctorSpecialty  *string    `gorm:"type:varchar(255)"`
	DoctorDegree     *string    `gorm:"type:varchar(255)"`
	HospitalName     *string    `gorm:"type:varchar(255);index"`
	HospitalAddress  *string    `gorm:"type:text"`
	Diagnosis        *string    `gorm:"type:text"`
	Notes            *string    `gorm:"type:text"`
	RawParsedData    datatypes.JSON `gorm:"type:jsonb"`
	ParsingStatus    string         `gorm:"type:varchar(50);default:pending"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

type Medicine struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrescriptionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(255);not null;index"`
	Dosage         *string   `gorm:"type:varchar(100)"`
	Frequency      *string   `gorm:"type:varchar(100)"`
	WhenToTake     *string   `gorm:"type:varchar(100)"`
	DurationDays   *int
	Instructions   *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Medicine) TableName() string {
	return "medicines"
}
