package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 100, 10)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	assert.Len(t, chunks, 3)
	for i := 0; i < len(chunks)-1; i++ {
		// Each chunk's tail reappears at the head of the next chunk.
		tail := chunks[i][len(chunks[i])-10:]
		assert.True(t, strings.HasPrefix(chunks[i+1], tail))
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 40, 10)

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))

	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 40)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// overlap >= chunkSize must not loop forever.
	chunks := SplitText(strings.Repeat("y", 50), 10, 10)
	assert.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
}
