package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id               uuid.UUID
	Email            string
	Username         *string
	FullName         *string
	PasswordHash     *string
	GoogleId         *string
	OpenRouterApiKey *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	IpAddress string
	UserAgent string
	CreatedAt time.Time
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
