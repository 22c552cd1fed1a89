package services

import (
	"strings"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validationError(message string) error {
	return common.NewError(common.KindValidation, common.ErrValidation, message)
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return validationError("Email is invalid")
	}
	return nil
}

func validateNewPassword(password string) error {
	if password == "" {
		return validationError("Password is required")
	}
	if len(password) < minPasswordLength {
		return validationError("Password must be at least 8 characters")
	}
	return nil
}
