package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/filex"
	"github.com/dmitrijs2005/nkitsi/internal/netx"
)

const (
	authPrefix  = "/auth"
	uploadPath  = "/api/upload"
	healthPath  = "/api/health"
	uploadField = "file"
)

var errNotLoggedIn = common.NewError(common.KindAuth, common.ErrUnauthenticated, "Not logged in")

type HTTPClient struct {
	baseURL        string
	http           *http.Client
	requestTimeout time.Duration
	uploadTimeout  time.Duration

	mu      sync.Mutex
	session models.Session
	email   string
}

func NewHTTPClient(baseURL string, requestTimeout, uploadTimeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{},
		requestTimeout: requestTimeout,
		uploadTimeout:  uploadTimeout,
	}
}

func (c *HTTPClient) setSession(email string, s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	if email != "" {
		c.email = email
	}
}

func (c *HTTPClient) currentSession() (models.Session, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.email
}

func (c *HTTPClient) LoggedIn() bool {
	s, _ := c.currentSession()
	return s.AccessToken != ""
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// call sends one JSON request and decodes a 2xx body into out (when not nil).
func (c *HTTPClient) call(ctx context.Context, method, path, token string, in, out any) error {
	ctx, cancel := withTimeout(ctx, c.requestTimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.NewError(common.KindTransport, common.ErrTransport, "Malformed response").WithDetail(err.Error())
	}
	return nil
}

// authorized runs call with the access token. On TokenExpired the session
// is refreshed once and the call repeated.
func (c *HTTPClient) authorized(ctx context.Context, method, path string, in, out any) error {
	s, _ := c.currentSession()
	if s.AccessToken == "" {
		return errNotLoggedIn
	}

	err := c.call(ctx, method, path, s.AccessToken, in, out)
	if err == nil || !errors.Is(err, common.ErrTokenExpired) || s.RefreshToken == "" {
		return err
	}

	if _, rerr := c.Refresh(ctx); rerr != nil {
		return err
	}

	s, _ = c.currentSession()
	return c.call(ctx, method, path, s.AccessToken, in, out)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, healthPath, "", nil, nil)
}

type deliveryResponse struct {
	CodeDeliveryDetails *models.CodeDelivery `json:"CodeDeliveryDetails"`
	CodeDelivery        *models.CodeDelivery `json:"codeDeliveryDetails"`
}

func (d deliveryResponse) details() *models.CodeDelivery {
	if d.CodeDeliveryDetails != nil {
		return d.CodeDeliveryDetails
	}
	if d.CodeDelivery != nil {
		return d.CodeDelivery
	}
	return &models.CodeDelivery{}
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) (*models.CodeDelivery, error) {
	var out deliveryResponse
	if err := c.call(ctx, http.MethodPost, authPrefix+"/signup", "", req, &out); err != nil {
		return nil, err
	}
	return out.details(), nil
}

func (c *HTTPClient) ConfirmSignUp(ctx context.Context, email, code string) error {
	return c.call(ctx, http.MethodPost, authPrefix+"/confirm-signup", "", map[string]string{"email": email, "code": code}, nil)
}

func (c *HTTPClient) ResendConfirmationCode(ctx context.Context, email string) (*models.CodeDelivery, error) {
	var out deliveryResponse
	if err := c.call(ctx, http.MethodPost, authPrefix+"/resend-code", "", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return out.details(), nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.CodeDelivery, error) {
	var out deliveryResponse
	if err := c.call(ctx, http.MethodPost, authPrefix+"/forgot-password", "", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return out.details(), nil
}

func (c *HTTPClient) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	return c.call(ctx, http.MethodPost, authPrefix+"/confirm-forgot-password", "", map[string]string{
		"email": email, "code": code, "newPassword": newPassword,
	}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var out models.Session
	if err := c.call(ctx, http.MethodPost, authPrefix+"/login", "", map[string]string{"email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	c.setSession(email, out)
	return &out, nil
}

func (c *HTTPClient) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := c.authorized(ctx, http.MethodGet, authPrefix+"/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the stored refresh token for a new session.
func (c *HTTPClient) Refresh(ctx context.Context) (*models.Session, error) {
	s, email := c.currentSession()
	if s.RefreshToken == "" {
		return nil, errNotLoggedIn
	}

	var out models.Session
	err := c.call(ctx, http.MethodPost, authPrefix+"/refresh", s.AccessToken, map[string]string{
		"refreshToken": s.RefreshToken, "email": email,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.setSession("", out)
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.authorized(ctx, http.MethodPost, authPrefix+"/change-password", map[string]string{
		"oldPassword": oldPassword, "newPassword": newPassword,
	}, nil)
}

// Logout acknowledges on the server and forgets the local session even when
// the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.authorized(ctx, http.MethodPost, authPrefix+"/logout", struct{}{}, nil)
	c.mu.Lock()
	c.session = models.Session{}
	c.email = ""
	c.mu.Unlock()
	return err
}

// Upload sends the file at req.Path as the "file" field of a multipart
// request. Progress reaches 1.0 only when the gateway accepted the file.
func (c *HTTPClient) Upload(ctx context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadResult, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, common.NewError(common.KindValidation, common.ErrValidation, "Could not read file").WithDetail(err.Error())
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
		size = st.Size()
	}

	contentType := req.MimeType
	if contentType == "" {
		contentType = filex.ContentType(req.Path)
	}

	ctx, cancel := withTimeout(ctx, c.uploadTimeout)
	defer cancel()

	p := netx.NewProgress(progress)
	body, formType := netx.MultipartBody(netx.FilePart{
		Field:       uploadField,
		FileName:    filex.UploadName(req.FileName, contentType),
		ContentType: contentType,
		Size:        size,
		Body:        f,
	}, p)
	defer body.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", formType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var out models.UploadResult
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.Key == "" {
		return nil, common.NewError(common.KindTransport, common.ErrTransport, "Malformed response").WithDetail(fmt.Sprintf("no key in %s response", resp.Status))
	}

	p.Done()
	return &out, nil
}
