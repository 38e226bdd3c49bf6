package pdfrender

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestImageDecoderSinglePage(t *testing.T) {
	doc, err := NewImageDecoder().Open(encodePNG(t, 200, 100))
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 1, doc.PageCount())

	w, h, err := doc.PageSize(1)
	require.NoError(t, err)
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 100.0, h)

	_, _, err = doc.PageSize(2)
	assert.Error(t, err)
}

func TestImageDecoderScales(t *testing.T) {
	doc, err := NewImageDecoder().Open(encodePNG(t, 200, 100))
	require.NoError(t, err)
	defer doc.Close()

	img, err := doc.RenderPage(1, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, err = doc.RenderPage(3, 1.0)
	assert.Error(t, err)
}

func TestImageDecoderRejectsGarbage(t *testing.T) {
	_, err := NewImageDecoder().Open([]byte("definitely not an image"))
	assert.Error(t, err)
}
