package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token "type" claims. Refresh tokens are never accepted where an access
// token is expected and vice versa.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenIssuer signs and verifies the JWT pairs used for API sessions.
type TokenIssuer struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenIssuer(secret string, accessMinutes, refreshDays int) *TokenIssuer {
	return &TokenIssuer{
		secret:        []byte(secret),
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (t *TokenIssuer) signToken(userId uuid.UUID, tokenType string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userId.String(),
		"type": tokenType,
		"exp":  time.Now().Add(expiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) IssueAccessToken(userId uuid.UUID) (string, error) {
	return t.signToken(userId, tokenTypeAccess, t.accessExpiry)
}

func (t *TokenIssuer) IssueRefreshToken(userId uuid.UUID) (string, error) {
	return t.signToken(userId, tokenTypeRefresh, t.refreshExpiry)
}

func (t *TokenIssuer) RefreshExpiry() time.Duration {
	return t.refreshExpiry
}

// Verify parses a signed token and returns the subject user id if the token
// is valid, unexpired, and of the expected type.
func (t *TokenIssuer) Verify(signed string, expectedType string) (uuid.UUID, error) {
	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid token claims")
	}
	if claimType, _ := claims["type"].(string); claimType != expectedType {
		return uuid.Nil, errors.New("invalid token type")
	}
	sub, _ := claims["sub"].(string)
	userId, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("invalid token subject")
	}
	return userId, nil
}

// hashToken stores only a digest of refresh tokens so a database leak does
// not yield usable credentials.
func hashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return hex.EncodeToString(hasher.Sum(nil))
}
