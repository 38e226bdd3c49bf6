package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name              string     `gorm:"type:varchar(255);not null"`
	DateOfBirth       *time.Time `gorm:"type:date"`
	Gender            *string    `gorm:"type:varchar(20)"`
	BloodGroup        *string    `gorm:"type:varchar(10)"`
	Allergies         *string    `gorm:"type:text"`
	ChronicConditions *string    `gorm:"type:text"`
	EmergencyContact  *string    `gorm:"type:varchar(100)"`
	RelationToUser    *string    `gorm:"type:varchar(50)"`
	AvatarUrl         *string    `gorm:"type:varchar(500)"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Patient) TableName() string {
	return "patients"
}
