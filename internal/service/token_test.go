package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30, 7)
	userId := uuid.New()

	access, err := issuer.IssueAccessToken(userId)
	require.NoError(t, err)

	got, err := issuer.Verify(access, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userId, got)
}

func TestTokenIssuerRejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30, 7)
	userId := uuid.New()

	refresh, err := issuer.IssueRefreshToken(userId)
	require.NoError(t, err)

	// A refresh token must never pass where an access token is expected.
	_, err = issuer.Verify(refresh, tokenTypeAccess)
	assert.Error(t, err)

	_, err = issuer.Verify(refresh, tokenTypeRefresh)
	assert.NoError(t, err)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30, 7)
	other := NewTokenIssuer("other-secret", 30, 7)

	access, err := issuer.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = other.Verify(access, tokenTypeAccess)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -1, 7)

	access, err := issuer.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(access, tokenTypeAccess)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30, 7)

	_, err := issuer.Verify("not.a.jwt", tokenTypeAccess)
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	a := hashToken("some-refresh-token")
	b := hashToken("some-refresh-token")
	c := hashToken("other-refresh-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "sha256 hex digest")
}
