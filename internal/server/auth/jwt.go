// Package auth mints and verifies the HS256 JWTs handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenUseAccess = "access"
	TokenUseID     = "id"
)

// Claims carries the registered claims plus the user attributes echoed back
// by the user-info endpoint.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	TokenUse    string `json:"token_use"`
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// GenerateToken signs a token of the given use for u. Every token gets a
// fresh jti, so two logins never produce the same string.
func GenerateToken(u *models.User, use string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email:    u.Email,
		TokenUse: use,
	}
	if use == TokenUseID {
		claims.Name = u.FullName
		claims.PhoneNumber = u.PhoneNumber
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken verifies signature, expiry and token use. An expired token
// yields common.ErrTokenExpired; anything else invalid yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, use string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenUse != use || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
