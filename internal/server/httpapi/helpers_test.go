package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/config"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nkitsi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memStore) URL(key string) string { return "https://bucket.test/" + key }

func (m *memStore) CheckCredentials(context.Context) error { return m.err }

func newTestServer(t *testing.T, store *memStore, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}
	rm := repomanager.NewInMemoryRepositoryManager()
	creds := services.NewCredentialService(rm, logging.Nop{})
	sessions := services.NewSessionService(rm, creds, cfg, logging.Nop{})
	uploads := services.NewUploadService(store, time.Minute, logging.Nop{})

	s := NewServer("127.0.0.1:0", logging.Nop{}, creds, sessions, uploads, Options{MaxUploadBytes: maxUpload, ShutdownTimeout: time.Second})
	return s.Router()
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func multipartRequest(t *testing.T, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + fileName + `"`}
		if contentType != "" {
			h["Content-Type"] = []string{contentType}
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// signUpAndLogin registers and confirms a user, then returns the login body.
func signUpAndLogin(t *testing.T, r http.Handler, email, password string) map[string]any {
	t.Helper()

	w, _ := doJSON(t, r, http.MethodPost, "/auth/signup", map[string]string{
		"email": email, "password": password, "fullName": "Test User", "phoneNumber": "+15550100",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/confirm-signup", map[string]string{"email": email, "code": "123456"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body
}
