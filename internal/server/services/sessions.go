package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
	"github.com/dmitrijs2005/nkitsi/internal/server/auth"
	"github.com/dmitrijs2005/nkitsi/internal/server/config"
	"github.com/dmitrijs2005/nkitsi/internal/server/models"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/repomanager"
)

var (
	errTokenExpired        = common.NewError(common.KindAuth, common.ErrTokenExpired, "Token expired")
	errInvalidToken        = common.NewError(common.KindAuth, common.ErrUnauthenticated, "Invalid or expired token")
	errInvalidRefreshToken = common.NewError(common.KindAuth, common.ErrUnauthenticated, "Invalid refresh token")
	errRefreshTokenExpired = common.NewError(common.KindAuth, common.ErrRefreshTokenExpired, "Refresh token expired")
)

// SessionService issues and rotates session tokens.
//
// Access and id tokens are signed JWTs; the refresh token is an opaque random
// string stored server side and rotated on every refresh.
type SessionService struct {
	rm                           repomanager.RepositoryManager
	credentials                  *CredentialService
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewSessionService(rm repomanager.RepositoryManager, credentials *CredentialService, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		rm:                           rm,
		credentials:                  credentials,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Login authenticates the user and returns a fresh token set.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.SessionToken, error) {
	u, err := s.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	var tok *models.SessionToken
	err = s.rm.InTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		tok, err = s.issue(ctx, m, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", u.ID)
	return tok, nil
}

// Authenticate verifies an access token.
func (s *SessionService) Authenticate(accessToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(accessToken, auth.TokenUseAccess, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}
	return claims, nil
}

// GetUserInfo returns the attributes of an authenticated user.
func (s *SessionService) GetUserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	u, err := s.rm.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return &models.UserInfo{
		Sub:           u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		PhoneNumber:   u.PhoneNumber,
		EmailVerified: u.Confirmed,
	}, nil
}

// RefreshToken exchanges a stored refresh token for a new token set. The
// token must belong to the user with the given e-mail (when one is given)
// and must not be expired. The old token is deleted in the same transaction.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken, email string) (*models.SessionToken, error) {
	if refreshToken == "" {
		return nil, validationError("Refresh token is required")
	}
	email = normalizeEmail(email)

	var tok *models.SessionToken
	err := s.rm.InTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		rt, err := m.RefreshTokens().Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errInvalidRefreshToken
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if rt.Expires.Before(s.now()) {
			return errRefreshTokenExpired
		}

		u, err := m.Users().GetByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errInvalidRefreshToken
			}
			return fmt.Errorf("error loading user: %w", err)
		}
		if email != "" && u.Email != email {
			return errInvalidRefreshToken
		}

		if err := m.RefreshTokens().Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return errInvalidRefreshToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		tok, err = s.issue(ctx, m, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// ChangePassword re-checks the current password before replacing it.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := s.credentials.ChangePassword(ctx, userID, oldPassword, newPassword); err != nil {
		return err
	}
	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// Logout only acknowledges the request. Issued tokens stay valid until they expire.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

func (s *SessionService) issue(ctx context.Context, m repomanager.RepositoryManager, u *models.User) (*models.SessionToken, error) {
	access, err := auth.GenerateToken(u, auth.TokenUseAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	id, err := auth.GenerateToken(u, auth.TokenUseID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error signing id token: %w", err)
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	if err := m.RefreshTokens().Create(ctx, u.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &models.SessionToken{
		AccessToken:  access,
		IdToken:      id,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTokenValidityDuration / time.Second),
	}, nil
}
