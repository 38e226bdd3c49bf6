package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByUsername filters users by username
type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByGoogleId filters users by linked Google account
type ByGoogleId struct {
	GoogleId string
}

func (s ByGoogleId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("google_id = ?", s.GoogleId)
}

// ByToken filters token records by their (hashed or plain) token value
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// UserOwnedBy scopes a query to rows owned by a user
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
