package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/gin-gonic/gin"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrNoFileProvided, http.StatusBadRequest},
	{common.ErrMissingDocumentType, http.StatusBadRequest},
	{common.ErrNotFound, http.StatusNotFound},
	{common.ErrAlreadyExists, http.StatusConflict},
	{common.ErrNotConfirmed, http.StatusForbidden},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrUnauthenticated, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
}

func statusFor(err error) int {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// errorBody renders err as {error, details?, code}. Unclassified errors are
// masked so driver messages never reach clients.
func errorBody(err error) gin.H {
	if common.KindOf(err) == common.KindInternal {
		return gin.H{"error": "Internal server error", "code": common.CodeOf(common.ErrInternal)}
	}
	body := gin.H{"error": common.MessageOf(err), "code": common.CodeOf(err)}
	if d := common.DetailOf(err); d != "" {
		body["details"] = d
	}
	return body
}

func (s *Server) writeError(c *gin.Context, err error) {
	s.writeErrorStatus(c, statusFor(err), err)
}

func (s *Server) writeErrorStatus(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, errorBody(err))
}

var errBadRequestBody = common.NewError(common.KindValidation, common.ErrValidation, "Invalid request body")
