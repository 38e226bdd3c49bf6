package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptorRoundTrip(t *testing.T) {
	enc, err := NewEncryptor("app-passphrase")
	require.NoError(t, err)

	sealed, err := enc.Encrypt("sk-or-v1-abcdef123456")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "sk-or-v1", "ciphertext must not leak the plaintext")

	plain, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-v1-abcdef123456", plain)
}

func TestEncryptorNonDeterministicNonce(t *testing.T) {
	enc, err := NewEncryptor("app-passphrase")
	require.NoError(t, err)

	a, err := enc.Encrypt("same-secret")
	require.NoError(t, err)
	b, err := enc.Encrypt("same-secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each seal must use a fresh nonce")
}

func TestEncryptorWrongPassphrase(t *testing.T) {
	enc, err := NewEncryptor("passphrase-one")
	require.NoError(t, err)
	sealed, err := enc.Encrypt("secret")
	require.NoError(t, err)

	other, err := NewEncryptor("passphrase-two")
	require.NoError(t, err)
	_, err = other.Decrypt(sealed)
	assert.Error(t, err)
}

func TestEncryptorRejectsGarbage(t *testing.T) {
	enc, err := NewEncryptor("app-passphrase")
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64!!!")
	assert.Error(t, err)

	_, err = enc.Decrypt("c2hvcnQ=")
	assert.Error(t, err, "ciphertext shorter than the nonce must be rejected")
}

func TestNewEncryptorEmptyPassphrase(t *testing.T) {
	_, err := NewEncryptor("")
	assert.Error(t, err)
}
