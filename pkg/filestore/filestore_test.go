package filestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRead(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	relPath, fileType, err := store.Save("user-1", "report.PDF", []byte("%PDF-1.7 test"))
	require.NoError(t, err)
	assert.Equal(t, TypePdf, fileType)
	assert.True(t, strings.HasPrefix(relPath, "user-1/"))
	assert.True(t, strings.HasSuffix(relPath, ".pdf"), "stored name keeps a lowercase extension")

	data, err := store.Read(relPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 test"), data)
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	_, _, err := store.Save("user-1", "malware.exe", []byte("MZ"))
	var unsupported *ErrUnsupportedType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".exe", unsupported.Ext)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := NewStore(t.TempDir(), 10)

	_, _, err := store.Save("user-1", "scan.png", make([]byte, 11))
	var tooLarge *ErrTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(11), tooLarge.Size)
	assert.Equal(t, int64(10), tooLarge.Limit)
}

func TestReadRejectsPathEscape(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	_, err := store.Read("../../etc/passwd")
	assert.Error(t, err)

	err = store.Delete("../outside.txt")
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	relPath, _, err := store.Save("user-1", "scan.jpg", []byte{0xFF, 0xD8})
	require.NoError(t, err)

	require.NoError(t, store.Delete(relPath))
	require.NoError(t, store.Delete(relPath), "deleting a missing file is not an error")

	_, err = store.Read(relPath)
	assert.Error(t, err)
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, TypePdf, DetectType("a.pdf"))
	assert.Equal(t, TypeImage, DetectType("b.JPG"))
	assert.Equal(t, TypeImage, DetectType("c.jpeg"))
	assert.Equal(t, TypeImage, DetectType("d.png"))
	assert.Equal(t, TypeImage, DetectType("e.webp"))
	assert.Equal(t, TypeUnknown, DetectType("f.gif"))
	assert.Equal(t, TypeUnknown, DetectType("noext"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a.pdf"))
	assert.Equal(t, "image/jpeg", ContentType("b.JPG"))
	assert.Equal(t, "image/png", ContentType("c.png"))
	assert.Equal(t, "application/octet-stream", ContentType("d.bin"))
}
