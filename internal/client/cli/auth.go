package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askEmail defaults to the remembered user when the answer is empty.
func (a *App) askEmail(ctx context.Context) (string, error) {
	last := a.authService.LastUser(ctx)
	prompt := "Enter email"
	if last != "" {
		prompt = fmt.Sprintf("Enter email [%s]", last)
	}
	email, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if email == "" {
		email = last
	}
	return email, nil
}

func (a *App) SignUp(ctx context.Context) error {
	var req models.SignUpRequest
	var err error

	if req.Email, err = a.ask("Enter email"); err != nil {
		return err
	}
	if req.Password, err = getPassword("Enter password", a.out); err != nil {
		return err
	}
	if req.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if req.PhoneNumber, err = a.ask("Phone number (optional)"); err != nil {
		return err
	}

	d, err := a.authService.SignUp(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User signed up successfully! Confirmation code sent by %s to %s\n", d.DeliveryMedium, d.Destination)
	return nil
}

func (a *App) Confirm(ctx context.Context) error {
	email, err := a.askEmail(ctx)
	if err != nil {
		return err
	}
	code, err := a.ask("Confirmation code")
	if err != nil {
		return err
	}
	if err := a.authService.ConfirmSignUp(ctx, email, code); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User confirmed successfully")
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	email, err := a.askEmail(ctx)
	if err != nil {
		return err
	}
	d, err := a.authService.ResendCode(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Confirmation code resent by %s to %s\n", d.DeliveryMedium, d.Destination)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.askEmail(ctx)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	a.setUser(email, true)
	fmt.Fprintln(a.out, "User logged in successfully!")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	info, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Email:    %s (verified: %t)\nName:     %s\nPhone:    %s\nSubject:  %s\n",
		info.Email, info.EmailVerified, info.FullName, info.PhoneNumber, info.Sub)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.authService.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Token refreshed")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed successfully")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := a.askEmail(ctx)
	if err != nil {
		return err
	}
	d, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password reset code sent by %s to %s\n", d.DeliveryMedium, d.Destination)
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	email, err := a.askEmail(ctx)
	if err != nil {
		return err
	}
	code, err := a.ask("Reset code")
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ResetPassword(ctx, email, code, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password reset successfully")
	return nil
}

// Logout forgets the local session even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.setUser("", false)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out successfully")
	return nil
}
