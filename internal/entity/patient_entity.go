package entity

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	Name              string
	DateOfBirth       *time.Time
	Gender            *string
	BloodGroup        *string
	Allergies         *string
	ChronicConditions *string
	EmergencyContact  *string
	RelationToUser    *string
	AvatarUrl         *string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}
