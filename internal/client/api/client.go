package api

import "context"

// Client is the surface of the remote authentication API that the session
// controller depends on. One method per endpoint; each method performs a
// single request and returns the decoded payload or an error. Failures carry
// the server's message when one was present in the response body.
type Client interface {
	Close() error

	// Voter OTP flow.
	RequestVoterLogin(ctx context.Context, nin, vin string) (OTPChallenge, error)
	VerifyVoterOTP(ctx context.Context, userID, code string) (AuthResult, error)
	ResendVoterOTP(ctx context.Context, userID string) (OTPChallenge, error)

	// Single-step logins.
	AdminLogin(ctx context.Context, nin, password string) (AuthResult, error)
	Login(ctx context.Context, identifier, password string) (AuthResult, error)
	Register(ctx context.Context, payload RegisterPayload) error

	// MFA.
	VerifyMFA(ctx context.Context, userID, token string) error
	SetupMFA(ctx context.Context) (MFASetup, error)
	EnableMFA(ctx context.Context, token string) error
	DisableMFA(ctx context.Context, token string) error
	GenerateBackupCodes(ctx context.Context) ([]string, error)
	VerifyBackupCode(ctx context.Context, code string) error

	// Session lifecycle.
	RefreshToken(ctx context.Context) (AuthResult, error)
	Logout(ctx context.Context) error
	AdminLogout(ctx context.Context) error

	// Password reset.
	ForgotPassword(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// USSD channel.
	USSDAuthenticate(ctx context.Context, nin, vin, phone string) (USSDInitiation, error)
	USSDVerifySession(ctx context.Context, sessionCode string) (AuthResult, error)
}
