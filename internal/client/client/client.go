package client

import (
	"context"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/netx"
)

// Client is the API used by the CLI services.
type Client interface {
	Ping(ctx context.Context) error

	SignUp(ctx context.Context, req models.SignUpRequest) (*models.CodeDelivery, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	ResendConfirmationCode(ctx context.Context, email string) (*models.CodeDelivery, error)
	ForgotPassword(ctx context.Context, email string) (*models.CodeDelivery, error)
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error

	Login(ctx context.Context, email, password string) (*models.Session, error)
	UserInfo(ctx context.Context) (*models.UserInfo, error)
	Refresh(ctx context.Context) (*models.Session, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Logout(ctx context.Context) error
	LoggedIn() bool

	// Upload streams one file to the gateway. progress may be nil.
	Upload(ctx context.Context, req models.UploadRequest, progress netx.ProgressFunc) (*models.UploadResult, error)
}
