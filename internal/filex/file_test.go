package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_Creates(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "nested", "nkitsi.db")

	got, err := EnsureParentDir(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "data", "nested"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	again, err := EnsureParentDir(path)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEnsureParentDir_FailsIfFileBlocksDir(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "data"), []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(tmp, "data", "nkitsi.db"))
	require.Error(t, err)
}

func TestContentType(t *testing.T) {
	tmp := t.TempDir()

	pdf := filepath.Join(tmp, "scan.PDF")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n"), 0o600))
	assert.Equal(t, "application/pdf", ContentType(pdf))

	png := filepath.Join(tmp, "photo")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))
	assert.Equal(t, "image/png", ContentType(png))

	assert.Equal(t, "application/octet-stream", ContentType(filepath.Join(tmp, "missing")))
}

func TestUploadName(t *testing.T) {
	assert.Equal(t, "scan.pdf", UploadName("scan.pdf", "application/pdf"))
	assert.Equal(t, "upload.jpeg", UploadName("", "image/jpeg"))
	assert.Equal(t, "upload.octet-stream", UploadName("  ", ""))
	assert.True(t, strings.HasPrefix(UploadName("", "garbage;;"), "upload."))
}
