package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MedicalReport struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	PatientId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReportType      *string    `gorm:"type:varchar(100);index"`
	ReportTitle     *string    `gorm:"type:varchar(255)"`
	ReportDate      *time.Time `gorm:"type:date"`
	LabName         *string    `gorm:"type:varchar(255);index"`
	LabAddress      *string    `gorm:"type:text"`
	TechnicianName  *string    `gorm:"type:varchar(255)"`
	ReferringDoctor *string    `gorm:"type:varchar(255)"`
	Findings        *string    `gorm:"type:text"`
	Conclusion      *string    `gorm:"type:text"`
	Recommendations *string    `gorm:"type:text"`
	TestResults     datatypes.JSON `gorm:"type:jsonb"`
	ParsedText      *string        `gorm:"type:text"`
	Summary         *string        `gorm:"type:text"`
	RawParsedData   datatypes.JSON `gorm:"type:jsonb"`
	ParsingStatus   string         `gorm:"type:varchar(50);default:pending"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (MedicalReport) TableName() string {
	return "medical_reports"
}

type ReportEmbedding struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PatientId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Document   string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	ChunkIndex int             `gorm:"default:0"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (ReportEmbedding) TableName() string {
	return "report_embeddings"
}
