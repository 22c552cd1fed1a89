package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/nkitsi/internal/common"
)

// errorResponse covers both error shapes the server uses:
// {error, details, code} and {success:false, message, code}.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

func kindFor(sentinel error) common.Kind {
	switch sentinel {
	case common.ErrValidation, common.ErrNoFileProvided, common.ErrMissingDocumentType:
		return common.KindValidation
	case common.ErrNotFound, common.ErrAlreadyExists, common.ErrNotConfirmed, common.ErrInvalidCredentials,
		common.ErrUnauthenticated, common.ErrInvalidToken, common.ErrTokenExpired, common.ErrRefreshTokenExpired:
		return common.KindAuth
	case common.ErrCredentialsUnavailable, common.ErrUploadFailed:
		return common.KindStorage
	default:
		return common.KindInternal
	}
}

// decodeError turns a non-2xx response into a *common.Error.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || (body.Error == "" && body.Message == "") {
		return common.NewError(common.KindTransport, common.ErrTransport, fmt.Sprintf("Unexpected response: %s", resp.Status))
	}

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	sentinel := common.SentinelOf(body.Code)
	if body.Code == "" {
		sentinel = sentinelForStatus(resp.StatusCode)
	}

	e := common.NewError(kindFor(sentinel), sentinel, msg)
	if body.Details != "" {
		e = e.WithDetail(body.Details)
	}
	return e
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrAlreadyExists
	default:
		return common.ErrInternal
	}
}

func transportError(err error) error {
	return common.NewError(common.KindTransport, common.ErrTransport, "Network error").WithDetail(err.Error())
}
