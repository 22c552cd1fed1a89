package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestUpload_Success(t *testing.T) {
	store := newMemStore()
	r := newTestServer(t, store, 1<<20)

	w, body := serve(t, r, multipartRequest(t, "file", "scan.pdf", "application/pdf", []byte("%PDF-1.7")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	key := body["key"].(string)
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.True(t, strings.HasSuffix(key, "_scan.pdf"))
	assert.Equal(t, "https://bucket.test/"+key, body["url"])
	assert.Equal(t, []byte("%PDF-1.7"), store.objects[key])
	assert.Equal(t, "application/pdf", store.types[key])
}

func TestUpload_DefaultContentType(t *testing.T) {
	store := newMemStore()
	r := newTestServer(t, store, 0)

	w, body := serve(t, r, multipartRequest(t, "file", "blob", "", []byte("x")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", store.types[body["key"].(string)])
}

func TestUpload_NoFile(t *testing.T) {
	r := newTestServer(t, newMemStore(), 0)

	w, body := serve(t, r, multipartRequest(t, "", "", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file provided", body["error"])
	assert.Equal(t, "NoFileProvided", body["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w, body = serve(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NoFileProvided", body["code"])
}

func TestUpload_RejectsSecondFilePart(t *testing.T) {
	store := newMemStore()
	r := newTestServer(t, store, 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.txt", "b.txt"} {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w, body := serve(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only one file may be uploaded", body["error"])
	assert.Equal(t, "ValidationError", body["code"])
	assert.Empty(t, store.objects)
}

func TestUpload_TooLarge(t *testing.T) {
	r := newTestServer(t, newMemStore(), 64)

	w, body := serve(t, r, multipartRequest(t, "file", "big.bin", "", bytes.Repeat([]byte("a"), 1024)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large", body["error"])
}

func TestUpload_StoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		details string
	}{
		{
			name:    "credentials",
			err:     common.NewError(common.KindStorage, common.ErrCredentialsUnavailable, "Upload failed").WithDetail(storage.CredentialsDetailS3),
			code:    "CredentialsUnavailable",
			details: storage.CredentialsDetailS3,
		},
		{
			name:    "generic",
			err:     common.NewError(common.KindStorage, common.ErrUploadFailed, "Upload failed").WithDetail("AccessDenied"),
			code:    "UploadFailed",
			details: "AccessDenied",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.err = tt.err
			r := newTestServer(t, store, 0)

			w, body := serve(t, r, multipartRequest(t, "file", "a.txt", "text/plain", []byte("x")))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Upload failed", body["error"])
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.details, body["details"])
		})
	}
}
