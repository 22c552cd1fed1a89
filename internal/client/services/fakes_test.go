package services

import (
	"context"
	"database/sql"
	"io"
	"os"
	"testing"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/client/repositories/kv"
	"github.com/dmitrijs2005/nkitsi/internal/netx"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := kv.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	SignUpErr  error
	ConfirmErr error
	LoginErr   error
	LogoutErr  error
	UploadErr  error
	UploadRet  *models.UploadResult

	Calls         []string
	LastUpload    models.UploadRequest
	UploadedBytes int64
	loggedIn      bool
}

func (f *fakeClient) record(name string) { f.Calls = append(f.Calls, name) }

func (f *fakeClient) Ping(context.Context) error {
	f.record("ping")
	return nil
}

func (f *fakeClient) SignUp(context.Context, models.SignUpRequest) (*models.CodeDelivery, error) {
	f.record("signup")
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	return &models.CodeDelivery{DeliveryMedium: "EMAIL"}, nil
}

func (f *fakeClient) ConfirmSignUp(context.Context, string, string) error {
	f.record("confirm")
	return f.ConfirmErr
}

func (f *fakeClient) ResendConfirmationCode(context.Context, string) (*models.CodeDelivery, error) {
	f.record("resend")
	return &models.CodeDelivery{}, nil
}

func (f *fakeClient) ForgotPassword(context.Context, string) (*models.CodeDelivery, error) {
	f.record("forgot")
	return &models.CodeDelivery{}, nil
}

func (f *fakeClient) ConfirmForgotPassword(context.Context, string, string, string) error {
	f.record("reset")
	return nil
}

func (f *fakeClient) Login(context.Context, string, string) (*models.Session, error) {
	f.record("login")
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	f.loggedIn = true
	return &models.Session{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}, nil
}

func (f *fakeClient) UserInfo(context.Context) (*models.UserInfo, error) {
	f.record("user")
	return &models.UserInfo{Email: "ann@example.com"}, nil
}

func (f *fakeClient) Refresh(context.Context) (*models.Session, error) {
	f.record("refresh")
	return &models.Session{}, nil
}

func (f *fakeClient) ChangePassword(context.Context, string, string) error {
	f.record("passwd")
	return nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.record("logout")
	f.loggedIn = false
	return f.LogoutErr
}

func (f *fakeClient) LoggedIn() bool { return f.loggedIn }

// Upload reads the file in chunks, reporting progress like the real client.
func (f *fakeClient) Upload(_ context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadResult, error) {
	f.record("upload")
	f.LastUpload = req

	file, err := os.Open(req.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return nil, err
	}

	p := netx.NewProgress(progress)
	buf := make([]byte, 256<<10)
	for {
		n, err := file.Read(buf)
		f.UploadedBytes += int64(n)
		if st.Size() > 0 {
			p.Report(0.99 * float64(f.UploadedBytes) / float64(st.Size()))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	p.Done()
	return f.UploadRet, nil
}
