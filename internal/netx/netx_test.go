package netx

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	seen []float64
}

func (r *recorder) fn(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, v)
}

func (r *recorder) values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.seen...)
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	var rec recorder
	p := NewProgress(rec.fn)

	p.Report(-1)
	p.Report(0.5)
	p.Report(0.25)
	p.Report(0.5)
	p.Report(2)
	p.Done()

	assert.Equal(t, []float64{0, 0.5, 1}, rec.values())
}

func TestProgress_NilSafe(t *testing.T) {
	var p *Progress
	assert.NotPanics(t, func() { p.Report(0.3) })
	assert.NotPanics(t, func() { NewProgress(nil).Done() })
}

func TestMultipartBody_Streams(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 50_000)

	var (
		gotName, gotType string
		gotBody          []byte
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if !assert.NoError(t, err) {
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		part, err := mr.NextPart()
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "file", part.FormName())
		gotName = part.FileName()
		gotType = part.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(part)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var rec recorder
	body, ct := MultipartBody(FilePart{
		Field: "file", FileName: `my "scan".pdf`, ContentType: "application/pdf",
		Size: int64(len(content)), Body: bytes.NewReader(content),
	}, NewProgress(rec.fn))

	resp, err := http.Post(ts.URL, ct, body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, `my "scan".pdf`, gotName)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, content, gotBody)

	seen := rec.values()
	require.NotEmpty(t, seen)
	assert.Equal(t, 0.0, seen[0])
	assert.Equal(t, maxStreamed, seen[len(seen)-1], "1.0 is left for Done")
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestMultipartBody_UnknownSizeReportsNothing(t *testing.T) {
	var rec recorder
	body, _ := MultipartBody(FilePart{Field: "file", FileName: "a", ContentType: "text/plain", Size: 0, Body: bytes.NewReader([]byte("abc"))}, NewProgress(rec.fn))
	_, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Empty(t, rec.values())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestMultipartBody_SourceErrorPropagates(t *testing.T) {
	body, _ := MultipartBody(FilePart{Field: "file", FileName: "a", ContentType: "text/plain", Size: 10, Body: failingReader{}}, nil)
	_, err := io.ReadAll(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
