// Package services contains application services for the nkitsi client.
// This file defines the authentication service: signup and confirmation,
// login/logout, password maintenance and the locally remembered user.
package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/nkitsi/internal/client/client"
	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/client/repositories/kv"
	"github.com/dmitrijs2005/nkitsi/internal/common"
)

// lastUserKey remembers the email of the last successful login.
const lastUserKey = "nkitsi:user"

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewError(common.KindValidation, common.ErrValidation, field+" is required")
	}
	return nil
}

// AuthService defines authentication operations for the CLI.
//
// Required fields are checked before any network call; everything else is
// decided by the server.
type AuthService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.CodeDelivery, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	ResendCode(ctx context.Context, email string) (*models.CodeDelivery, error)
	ForgotPassword(ctx context.Context, email string) (*models.CodeDelivery, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	Login(ctx context.Context, email, password string) error
	WhoAmI(ctx context.Context) (*models.UserInfo, error)
	Refresh(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Logout(ctx context.Context) error

	LastUser(ctx context.Context) string
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) kvRepo() kv.Repository {
	return kv.NewSQLiteRepository(a.db)
}

func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.CodeDelivery, error) {
	if err := required(req.Email, "Email"); err != nil {
		return nil, err
	}
	if err := required(req.Password, "Password"); err != nil {
		return nil, err
	}
	return a.client.SignUp(ctx, req)
}

func (a *authService) ConfirmSignUp(ctx context.Context, email, code string) error {
	if err := required(email, "Email"); err != nil {
		return err
	}
	if err := required(code, "Code"); err != nil {
		return err
	}
	return a.client.ConfirmSignUp(ctx, email, code)
}

func (a *authService) ResendCode(ctx context.Context, email string) (*models.CodeDelivery, error) {
	if err := required(email, "Email"); err != nil {
		return nil, err
	}
	return a.client.ResendConfirmationCode(ctx, email)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (*models.CodeDelivery, error) {
	if err := required(email, "Email"); err != nil {
		return nil, err
	}
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	for _, f := range []struct{ v, name string }{{email, "Email"}, {code, "Code"}, {newPassword, "New password"}} {
		if err := required(f.v, f.name); err != nil {
			return err
		}
	}
	return a.client.ConfirmForgotPassword(ctx, email, code, newPassword)
}

// Login authenticates and remembers the email locally. Failing to remember
// it does not fail the login.
func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := required(email, "Email"); err != nil {
		return err
	}
	if err := required(password, "Password"); err != nil {
		return err
	}

	if _, err := a.client.Login(ctx, email, password); err != nil {
		return err
	}

	_ = a.kvRepo().Set(ctx, lastUserKey, []byte(strings.ToLower(strings.TrimSpace(email))))
	return nil
}

func (a *authService) WhoAmI(ctx context.Context) (*models.UserInfo, error) {
	return a.client.UserInfo(ctx)
}

func (a *authService) Refresh(ctx context.Context) error {
	_, err := a.client.Refresh(ctx)
	return err
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := required(oldPassword, "Old password"); err != nil {
		return err
	}
	if err := required(newPassword, "New password"); err != nil {
		return err
	}
	return a.client.ChangePassword(ctx, oldPassword, newPassword)
}

// Logout forgets the session and the remembered user.
func (a *authService) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	_ = a.kvRepo().Delete(ctx, lastUserKey)
	return err
}

func (a *authService) LastUser(ctx context.Context) string {
	v, err := a.kvRepo().Get(ctx, lastUserKey)
	if err != nil {
		return ""
	}
	return string(v)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
