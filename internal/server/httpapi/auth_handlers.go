package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type confirmForgotPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// bind decodes the JSON body into req, answering 400 on failure.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.writeError(c, errBadRequestBody.WithDetail(err.Error()))
		return false
	}
	return true
}

func (s *Server) handleSignUp(c *gin.Context) {
	var req signUpRequest
	if !s.bind(c, &req) {
		return
	}

	p, err := s.credentials.SignUp(c.Request.Context(), services.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":             "User signed up successfully!",
		"user":                gin.H{"email": p.User.Email, "phoneNumber": p.User.PhoneNumber},
		"UserConfirmed":       p.UserConfirmed,
		"CodeDeliveryDetails": p.CodeDeliveryDetails,
	})
}

// handleConfirmSignUp keeps the {success, data|message} envelope; every
// client-side failure is a 400.
func (s *Server) handleConfirmSignUp(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body", "code": common.CodeOf(common.ErrValidation)})
		return
	}

	if err := s.credentials.ConfirmSignUp(c.Request.Context(), req.Email, req.Code); err != nil {
		status := http.StatusBadRequest
		if common.KindOf(err) == common.KindInternal {
			status = http.StatusInternalServerError
			s.logger.Error(c.Request.Context(), "confirm sign-up failed", "error", err)
		}
		body := errorBody(err)
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": body["error"], "code": body["code"]})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"message": "User confirmed successfully"}})
}

func (s *Server) handleResendCode(c *gin.Context) {
	var req emailRequest
	if !s.bind(c, &req) {
		return
	}

	d, err := s.credentials.ResendConfirmationCode(c.Request.Context(), req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Confirmation code resent", "codeDeliveryDetails": d})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !s.bind(c, &req) {
		return
	}

	tok, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "User logged in successfully!",
		"token":        tok.AccessToken,
		"AccessToken":  tok.AccessToken,
		"IdToken":      tok.IdToken,
		"RefreshToken": tok.RefreshToken,
		"ExpiresIn":    tok.ExpiresIn,
	})
}

func (s *Server) handleUser(c *gin.Context) {
	info, err := s.sessions.GetUserInfo(c.Request.Context(), claimsFrom(c).Subject)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if !s.bind(c, &req) {
		return
	}

	tok, err := s.sessions.RefreshToken(c.Request.Context(), req.RefreshToken, req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Token refreshed",
		"AccessToken":  tok.AccessToken,
		"IdToken":      tok.IdToken,
		"RefreshToken": tok.RefreshToken,
		"ExpiresIn":    tok.ExpiresIn,
	})
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !s.bind(c, &req) {
		return
	}

	if err := s.sessions.ChangePassword(c.Request.Context(), claimsFrom(c).Subject, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.Logout(c.Request.Context(), claimsFrom(c).Subject); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) handleForgotPassword(c *gin.Context) {
	var req emailRequest
	if !s.bind(c, &req) {
		return
	}

	d, err := s.credentials.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset code sent", "codeDeliveryDetails": d})
}

func (s *Server) handleConfirmForgotPassword(c *gin.Context) {
	var req confirmForgotPasswordRequest
	if !s.bind(c, &req) {
		return
	}

	if err := s.credentials.ConfirmForgotPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
