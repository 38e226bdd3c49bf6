package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientId    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName     string    `gorm:"type:varchar(255);not null"`
	DisplayName  *string   `gorm:"type:varchar(255)"`
	FilePath     string    `gorm:"type:varchar(500);not null"`
	FileType     string    `gorm:"type:varchar(50)"`
	FileSize     int64
	DocumentType string    `gorm:"type:varchar(50);index"`
	UploadDate   time.Time `gorm:"autoCreateTime;index"`
	Notes        *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
