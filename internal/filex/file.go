// Package filex holds small filesystem helpers for the CLI.
package filex

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultContentType = "application/octet-stream"

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ContentType resolves the MIME type of the file at path: by extension
// first, then by sniffing its content. Unknown files are
// application/octet-stream.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	if m, err := mimetype.DetectFile(path); err == nil && m != nil {
		return m.String()
	}
	return defaultContentType
}

// UploadName is the name sent for a file. An empty name becomes
// "upload.<subtype>" of contentType.
func UploadName(name, contentType string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = defaultContentType
	}
	_, sub, _ := strings.Cut(mediaType, "/")
	if sub == "" {
		sub = "bin"
	}
	return "upload." + sub
}
