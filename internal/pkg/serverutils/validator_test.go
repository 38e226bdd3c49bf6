package serverutils

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Limit int    `validate:"omitempty,max=50"`
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(&sampleRequest{Email: "user@example.com", Limit: 10})
	assert.NoError(t, err)
}

func TestValidateRequestReportsFields(t *testing.T) {
	err := ValidateRequest(&sampleRequest{Email: "not-an-email", Limit: 500})
	require.Error(t, err)

	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "Email (email)")
	assert.Contains(t, fiberErr.Message, "Limit (max)")
}

func TestValidateRequestRequired(t *testing.T) {
	err := ValidateRequest(&sampleRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email (required)")
}
