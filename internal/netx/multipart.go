package netx

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FilePart describes the single file field of a multipart body.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MultipartBody streams part as multipart/form-data through a pipe. It returns
// the body to send and its Content-Type header. Progress is reported against
// part.Size while the body is consumed; closing the body aborts the writer.
func MultipartBody(part FilePart, progress *Progress) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(part.Field), quoteEscaper.Replace(part.FileName)))
		h.Set("Content-Type", part.ContentType)

		w, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		if part.Size > 0 {
			progress.Report(0)
		}
		src := &countingReader{r: part.Body, total: part.Size, p: progress}
		if _, err := io.Copy(w, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}
