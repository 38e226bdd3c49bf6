package aiparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"document_type": "prescription"}`,
			wantKey: "document_type",
		},
		{
			name:    "object in code fence",
			content: "Here you go:\n```json\n{\"document_type\": \"medical_report\"}\n```\nLet me know!",
			wantKey: "document_type",
		},
		{
			name:    "object with surrounding prose",
			content: `The extracted data is {"medicines": []} as requested.`,
			wantKey: "medicines",
		},
		{
			name:    "no object at all",
			content: "I could not read the document.",
			wantErr: true,
		},
		{
			name:    "braces but invalid json",
			content: "{not: valid}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := extractJSON(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantKey)
		})
	}
}

func TestDataURL(t *testing.T) {
	assert.True(t, strings.HasPrefix(dataURL([]byte("%PDF-1.7"), true), "data:application/pdf;base64,"))
	assert.True(t, strings.HasPrefix(dataURL([]byte("\x89PNG\r\n\x1a\nrest"), false), "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(dataURL([]byte{0xff, 0xd8, 0xff}, false), "data:image/jpeg;base64,"))
	assert.True(t, strings.HasPrefix(dataURL([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), false), "data:image/webp;base64,"))
	// Unrecognized bytes default to JPEG
	assert.True(t, strings.HasPrefix(dataURL([]byte("??"), false), "data:image/jpeg;base64,"))
}
