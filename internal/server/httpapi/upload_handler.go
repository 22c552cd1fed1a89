package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/services"
	"github.com/gin-gonic/gin"
)

const uploadFieldName = "file"

var (
	errNoFile       = common.NewError(common.KindValidation, common.ErrNoFileProvided, "No file provided")
	errFileTooLarge = common.NewError(common.KindValidation, common.ErrValidation, "File too large")
	errTooManyFiles = common.NewError(common.KindValidation, common.ErrValidation, "Only one file may be uploaded")
)

// handleUpload accepts a multipart request with a single "file" field and
// streams it to the content store.
func (s *Server) handleUpload(c *gin.Context) {
	if s.maxUploadBytes > 0 {
		if c.Request.ContentLength > s.maxUploadBytes {
			s.writeErrorStatus(c, http.StatusRequestEntityTooLarge, errFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	}

	fh, err := c.FormFile(uploadFieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorStatus(c, http.StatusRequestEntityTooLarge, errFileTooLarge)
			return
		}
		s.writeError(c, errNoFile)
		return
	}
	if files := c.Request.MultipartForm.File[uploadFieldName]; len(files) > 1 {
		s.writeError(c, errTooManyFiles.WithDetail(fmt.Sprintf("got %d parts named %q", len(files), uploadFieldName)))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, common.NewError(common.KindStorage, common.ErrUploadFailed, "Upload failed").WithDetail(err.Error()))
		return
	}
	defer f.Close()

	res, err := s.uploads.Upload(c.Request.Context(), &services.UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
