package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/secureballot/cli/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login walks the voter OTP flow: request a code with NIN/VIN, then verify
// the code delivered by email. An empty code prompt with "resend" requests a
// fresh code.
func (a *App) Login(ctx context.Context) error {
	nin, err := getSimpleText(a.reader, "Enter NIN", os.Stdout)
	if err != nil {
		return err
	}
	vin, err := getSimpleText(a.reader, "Enter VIN", os.Stdout)
	if err != nil {
		return err
	}

	ch, err := a.controller.RequestVoterLogin(ctx, nin, vin)
	if err != nil {
		return err
	}
	fmt.Printf("OTP sent to %s (expires %s)\n", ch.Email, ch.ExpiresAt.Format(time.RFC3339))

	for {
		code, err := getSimpleText(a.reader, "Enter OTP code (or 'resend')", os.Stdout)
		if err != nil {
			return err
		}
		if code == "resend" {
			if _, err := a.controller.ResendVoterOTP(ctx); err != nil {
				return err
			}
			continue
		}
		if _, err := a.controller.VerifyVoterOTP(ctx, code); err != nil {
			return err
		}
		return nil
	}
}

// AdminLogin performs the single-step administrator login.
func (a *App) AdminLogin(ctx context.Context) error {
	nin, err := getSimpleText(a.reader, "Enter admin NIN", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	_, err = a.controller.AdminLogin(ctx, nin, password)
	return err
}

// PasswordLogin uses the legacy identifier/password flow and, when the
// account requires it, continues into MFA verification.
func (a *App) PasswordLogin(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter NIN or VIN", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	res, err := a.controller.Login(ctx, identifier, password)
	if err != nil {
		return err
	}
	if !res.RequiresMfa {
		return nil
	}

	token, err := getSimpleText(a.reader, "Enter MFA token", os.Stdout)
	if err != nil {
		return err
	}
	return a.controller.VerifyMFA(ctx, res.User.ID, token)
}

// Register collects the voter registration form and submits it.
func (a *App) Register(ctx context.Context) error {
	var payload api.RegisterPayload

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter NIN", &payload.NIN},
		{"Enter VIN", &payload.VIN},
		{"Enter full name", &payload.FullName},
		{"Enter phone number", &payload.PhoneNumber},
		{"Enter date of birth (YYYY-MM-DD)", &payload.DateOfBirth},
		{"Enter state", &payload.State},
		{"Enter gender", &payload.Gender},
		{"Enter LGA", &payload.LGA},
		{"Enter ward", &payload.Ward},
		{"Enter polling unit code", &payload.PollingUnitCode},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	payload.Password = password

	return a.controller.Register(ctx, payload)
}

// USSD starts the out-of-band USSD flow, then verifies the session code the
// voter received on their phone.
func (a *App) USSD(ctx context.Context) error {
	nin, err := getSimpleText(a.reader, "Enter NIN", os.Stdout)
	if err != nil {
		return err
	}
	vin, err := getSimpleText(a.reader, "Enter VIN", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone number", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.controller.USSDAuthenticate(ctx, nin, vin, phone); err != nil {
		return err
	}

	code, err := getSimpleText(a.reader, "Enter session code from your phone", os.Stdout)
	if err != nil {
		return err
	}
	_, err = a.controller.USSDVerifySession(ctx, code)
	return err
}

// ForgotPassword asks for reset instructions; ResetPassword consumes the
// delivered token.
func (a *App) ForgotPassword(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter NIN or VIN", os.Stdout)
	if err != nil {
		return err
	}
	return a.controller.ForgotPassword(ctx, identifier)
}

func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}
	return a.controller.ResetPassword(ctx, token, password)
}

// MFASetup runs the enrollment sequence: fetch the secret, then confirm
// with a generated token to enable.
func (a *App) MFASetup(ctx context.Context) error {
	setup, err := a.controller.SetupMFA(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Secret: %s\nAdd it to your authenticator app (%s)\n", setup.Secret, setup.OTPAuthURL)

	token, err := getSimpleText(a.reader, "Enter a token from your authenticator to confirm", os.Stdout)
	if err != nil {
		return err
	}
	return a.controller.EnableMFA(ctx, token)
}

func (a *App) MFADisable(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter MFA token", os.Stdout)
	if err != nil {
		return err
	}
	return a.controller.DisableMFA(ctx, token)
}

func (a *App) BackupCodes(ctx context.Context) error {
	codes, err := a.controller.GenerateBackupCodes(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Backup codes (store them somewhere safe):")
	for _, c := range codes {
		fmt.Printf("  %s\n", c)
	}
	return nil
}

func (a *App) BackupVerify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter backup code", os.Stdout)
	if err != nil {
		return err
	}
	return a.controller.VerifyBackupCode(ctx, code)
}

// Refresh replaces the session token; on failure the controller has already
// logged the user out.
func (a *App) Refresh(ctx context.Context) error {
	_, err := a.controller.RefreshToken(ctx)
	return err
}

func (a *App) Logout(ctx context.Context) error {
	a.controller.Logout(ctx)
	return nil
}

// Whoami prints the current session summary.
func (a *App) Whoami(ctx context.Context) error {
	u, ok := a.store.User()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s), role %s, verified=%t, active=%t\n", u.FullName, u.Email, u.Role, u.IsVerified, u.IsActive)
	if exp, ok := a.store.ExpiresAt(); ok {
		fmt.Printf("Session expires %s\n", exp.Format(time.RFC3339))
	}
	fmt.Printf("Current route: %s\n", a.nav.Current())
	return nil
}
