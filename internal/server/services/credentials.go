// Package services contains the server's business logic: the credential
// store, the auth session service and the upload gateway.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/models"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists         = common.NewError(common.KindAuth, common.ErrAlreadyExists, "User already exists")
	errUserNotFound       = common.NewError(common.KindAuth, common.ErrNotFound, "User not found")
	errUserNotConfirmed   = common.NewError(common.KindAuth, common.ErrNotConfirmed, "User not confirmed")
	errInvalidCredentials = common.NewError(common.KindAuth, common.ErrInvalidCredentials, "Invalid password")
)

type SignUpInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

// PendingConfirmation is returned by SignUp: the account exists but cannot
// log in until confirmed.
type PendingConfirmation struct {
	User                *models.User
	UserConfirmed       bool
	CodeDeliveryDetails models.CodeDelivery
}

// CredentialService registers, confirms and authenticates users. Passwords
// are kept as bcrypt hashes only.
//
// Confirmation codes are not verified: any code confirms the account. This
// is a stand-in for a real one-time-code check.
type CredentialService struct {
	rm       repomanager.RepositoryManager
	logger   logging.Logger
	hashCost int
}

func NewCredentialService(rm repomanager.RepositoryManager, logger logging.Logger) *CredentialService {
	return &CredentialService{rm: rm, logger: logger, hashCost: bcrypt.DefaultCost}
}

func (s *CredentialService) SignUp(ctx context.Context, in SignUpInput) (*PendingConfirmation, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
	}
	if _, err := s.rm.Users().Create(ctx, u); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	delivery := codeDelivery(u)
	s.logger.Info(ctx, "confirmation code dispatched", "user_id", u.ID, "medium", delivery.DeliveryMedium)

	return &PendingConfirmation{User: u, UserConfirmed: false, CodeDeliveryDetails: delivery}, nil
}

// ConfirmSignUp accepts any code for an existing user.
func (s *CredentialService) ConfirmSignUp(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	if err := s.rm.Users().SetConfirmed(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errUserNotFound
		}
		return fmt.Errorf("error confirming user: %w", err)
	}
	s.logger.Info(ctx, "user confirmed", "email", email)
	return nil
}

// ResendConfirmationCode simulates sending a new code to an existing user.
func (s *CredentialService) ResendConfirmationCode(ctx context.Context, email string) (*models.CodeDelivery, error) {
	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	d := codeDelivery(u)
	return &d, nil
}

// ForgotPassword simulates sending a reset code to an existing user.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string) (*models.CodeDelivery, error) {
	return s.ResendConfirmationCode(ctx, email)
}

// ConfirmForgotPassword sets a new password. As with sign-up, any code is accepted.
func (s *CredentialService) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}
	u, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u.ID, newPassword)
}

// Authenticate checks email and password. The order of checks is
// NotFound, then NotConfirmed, then InvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, validationError("Password is required")
	}

	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.Confirmed {
		return nil, errUserNotConfirmed
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// ChangePassword verifies oldPassword for userID and stores newPassword.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	u, err := s.rm.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errUserNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(oldPassword)); err != nil {
		return errInvalidCredentials
	}
	return s.setPassword(ctx, u.ID, newPassword)
}

func (s *CredentialService) lookup(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	u, err := s.rm.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

func (s *CredentialService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.rm.Users().UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

func (s *CredentialService) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	return h, nil
}

// codeDelivery prefers SMS to the phone number and falls back to e-mail.
func codeDelivery(u *models.User) models.CodeDelivery {
	if u.PhoneNumber != "" {
		return models.CodeDelivery{Destination: u.PhoneNumber, DeliveryMedium: "SMS", AttributeName: "phone_number"}
	}
	return models.CodeDelivery{Destination: u.Email, DeliveryMedium: "EMAIL", AttributeName: "email"}
}
