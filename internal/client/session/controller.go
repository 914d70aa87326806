package session

import (
	"context"
	"sync"
	"time"

	"github.com/secureballot/cli/internal/client/api"
	"github.com/secureballot/cli/internal/common"
	"github.com/secureballot/cli/internal/logging"
)

// OTPState is the transient state between requesting a voter login and
// verifying the delivered code. It never leaves process memory.
type OTPState struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Active reports whether an OTP session is in progress.
func (o OTPState) Active() bool { return o.UserID != "" }

// Controller orchestrates every login, verification, and logout variant
// against the authentication API, translating outcomes into store mutations
// and navigation.
//
// A single mutex serializes flows: overlapping auth calls would race on the
// session (last-to-complete wins), so only one flow mutates it at a time.
//
// Every flow follows the same contract: the loading flag is set on entry and
// cleared on exit, any prior error is cleared before the call, and failures
// are recorded in the store's error slot and notification queue *and*
// returned, so callers can handle them independently of the shared display.
type Controller struct {
	api   api.Client
	store *Store
	nav   Navigator
	log   logging.Logger

	mu  sync.Mutex
	otp OTPState
}

func NewController(client api.Client, store *Store, nav Navigator, log logging.Logger) *Controller {
	return &Controller{api: client, store: store, nav: nav, log: log}
}

// OTP returns the current OTP session state.
func (c *Controller) OTP() OTPState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.otp
}

// begin marks a flow as started: loading on, previous error cleared.
func (c *Controller) begin() {
	c.store.SetLoading(true)
	c.store.ClearError()
}

// fail records err under the flow's fallback message in both feedback
// channels and hands the error back to the caller.
func (c *Controller) fail(err error, fallback string) error {
	msg := api.ErrorMessage(err, fallback)
	c.store.SetError(msg)
	c.store.AddNotification(NotificationError, msg)
	return err
}

func successMessage(serverMsg, fallback string) string {
	if serverMsg != "" {
		return serverMsg
	}
	return fallback
}

// RequestVoterLogin starts the voter OTP flow. On success the returned
// challenge becomes the OTP session consumed by VerifyVoterOTP.
func (c *Controller) RequestVoterLogin(ctx context.Context, nin, vin string) (api.OTPChallenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	ch, err := c.api.RequestVoterLogin(ctx, nin, vin)
	if err != nil {
		return api.OTPChallenge{}, c.fail(err, "Login request failed")
	}

	c.otp = OTPState{UserID: ch.UserID, Email: ch.Email, ExpiresAt: ch.ExpiresAt}
	c.store.AddNotification(NotificationSuccess,
		successMessage(ch.Message, "OTP sent successfully! Check your email."))
	return ch, nil
}

// VerifyVoterOTP completes the voter OTP flow. Without an active OTP session
// it fails locally and issues no network call.
func (c *Controller) VerifyVoterOTP(ctx context.Context, code string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.otp.Active() {
		return api.AuthResult{}, c.fail(common.ErrNoOTPSession, "No OTP session found. Please request login again.")
	}

	c.begin()
	defer c.store.SetLoading(false)

	res, err := c.api.VerifyVoterOTP(ctx, c.otp.UserID, code)
	if err != nil {
		return api.AuthResult{}, c.fail(err, "OTP verification failed")
	}

	c.store.SetAuth(res.Token, UserFromAPI(res.User, RoleVoter), false)
	c.otp = OTPState{}
	c.store.AddNotification(NotificationSuccess, "Login successful!")
	c.nav.NavigateTo(PathDashboard)
	return res, nil
}

// ResendVoterOTP requests a fresh code for the active OTP session. On
// success the session is replaced wholesale with the returned values.
func (c *Controller) ResendVoterOTP(ctx context.Context) (api.OTPChallenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.otp.Active() {
		return api.OTPChallenge{}, c.fail(common.ErrNoOTPSession, "No OTP session found. Please request login again.")
	}

	c.begin()
	defer c.store.SetLoading(false)

	ch, err := c.api.ResendVoterOTP(ctx, c.otp.UserID)
	if err != nil {
		return api.OTPChallenge{}, c.fail(err, "Failed to resend OTP")
	}

	c.otp = OTPState{UserID: ch.UserID, Email: ch.Email, ExpiresAt: ch.ExpiresAt}
	c.store.AddNotification(NotificationSuccess, "New OTP sent successfully!")
	return ch, nil
}

// AdminLogin is the single-step password login for administrators.
func (c *Controller) AdminLogin(ctx context.Context, nin, password string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	res, err := c.api.AdminLogin(ctx, nin, password)
	if err != nil {
		return api.AuthResult{}, c.fail(err, "Admin login failed")
	}

	c.store.SetAuth(res.Token, UserFromAPI(res.User, RoleAdmin), false)
	c.store.AddNotification(NotificationSuccess, "Admin login successful!")
	c.nav.NavigateTo(PathAdminDashboard)
	return res, nil
}

// Login is the legacy password login for voters. When the account has MFA
// enabled the session is established pending verification and the flow
// navigates to the MFA screen instead of the dashboard.
func (c *Controller) Login(ctx context.Context, identifier, password string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	res, err := c.api.Login(ctx, identifier, password)
	if err != nil {
		return api.AuthResult{}, c.fail(err, "Login failed")
	}

	c.store.SetAuth(res.Token, UserFromAPI(res.User, RoleVoter), res.RequiresMfa)

	if res.RequiresMfa {
		c.nav.NavigateTo(PathVerifyMFA)
	} else {
		c.store.AddNotification(NotificationSuccess, "Login successful!")
		c.nav.NavigateTo(PathDashboard)
	}
	return res, nil
}

// Register creates a voter account and sends the user to the login screen.
func (c *Controller) Register(ctx context.Context, payload api.RegisterPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.Register(ctx, payload); err != nil {
		return c.fail(err, "Registration failed")
	}

	c.store.AddNotification(NotificationSuccess, "Registration successful! Please login to continue.")
	c.nav.NavigateTo(PathLogin)
	return nil
}

// VerifyMFA completes the secondary verification step and routes by role.
func (c *Controller) VerifyMFA(ctx context.Context, userID, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.VerifyMFA(ctx, userID, token); err != nil {
		return c.fail(err, "MFA verification failed")
	}

	c.store.SetMfaRequired(false)
	c.store.AddNotification(NotificationSuccess, "MFA verification successful!")
	c.navigateByRole()
	return nil
}

// SetupMFA fetches enrollment material (secret and QR code).
func (c *Controller) SetupMFA(ctx context.Context) (api.MFASetup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	setup, err := c.api.SetupMFA(ctx)
	if err != nil {
		return api.MFASetup{}, c.fail(err, "Failed to setup MFA")
	}
	return setup, nil
}

func (c *Controller) EnableMFA(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.EnableMFA(ctx, token); err != nil {
		return c.fail(err, "Failed to enable MFA")
	}
	c.store.AddNotification(NotificationSuccess, "MFA enabled successfully!")
	return nil
}

func (c *Controller) DisableMFA(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.DisableMFA(ctx, token); err != nil {
		return c.fail(err, "Failed to disable MFA")
	}
	c.store.AddNotification(NotificationSuccess, "MFA disabled successfully!")
	return nil
}

func (c *Controller) GenerateBackupCodes(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	codes, err := c.api.GenerateBackupCodes(ctx)
	if err != nil {
		return nil, c.fail(err, "Failed to generate backup codes")
	}
	c.store.AddNotification(NotificationSuccess, "Backup codes generated successfully!")
	return codes, nil
}

// VerifyBackupCode consumes a backup code in place of an MFA token and
// routes by role, mirroring VerifyMFA.
func (c *Controller) VerifyBackupCode(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.VerifyBackupCode(ctx, code); err != nil {
		return c.fail(err, "Backup code verification failed")
	}

	c.store.SetMfaRequired(false)
	c.store.AddNotification(NotificationSuccess, "Backup code verification successful!")
	c.navigateByRole()
	return nil
}

// USSDAuthenticate starts an out-of-band USSD session. The session code
// arrives on the voter's phone; no local session state changes here.
func (c *Controller) USSDAuthenticate(ctx context.Context, nin, vin, phone string) (api.USSDInitiation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	init, err := c.api.USSDAuthenticate(ctx, nin, vin, phone)
	if err != nil {
		return api.USSDInitiation{}, c.fail(err, "USSD authentication failed")
	}

	c.store.AddNotification(NotificationSuccess,
		"USSD authentication initiated! Check your phone for the session code.")
	return init, nil
}

// USSDVerifySession exchanges the phone-delivered session code for a session.
func (c *Controller) USSDVerifySession(ctx context.Context, sessionCode string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	res, err := c.api.USSDVerifySession(ctx, sessionCode)
	if err != nil {
		return api.AuthResult{}, c.fail(err, "USSD session verification failed")
	}

	c.store.SetAuth(res.Token, UserFromAPI(res.User, RoleVoter), false)
	c.store.AddNotification(NotificationSuccess, "USSD session verified successfully!")
	c.nav.NavigateTo(PathDashboard)
	return res, nil
}

// RefreshToken replaces the session token and user, preserving the current
// MFA requirement. Any failure invalidates the session: the controller
// performs a full logout before returning the error.
func (c *Controller) RefreshToken(ctx context.Context) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.api.RefreshToken(ctx)
	if err != nil {
		c.logout(ctx)
		return api.AuthResult{}, err
	}

	// The refreshed user keeps whatever role the server reports; the session
	// was already established by one of the role-forcing flows.
	u := UserFromAPI(res.User, Role(res.User.Role))
	c.store.SetAuth(res.Token, u, c.store.RequiresMfa())
	return res, nil
}

// Logout ends the session. The remote call is best-effort: a failure is
// logged and local cleanup proceeds regardless.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logout(ctx)
}

func (c *Controller) logout(ctx context.Context) {
	c.store.SetLoading(true)
	defer c.store.SetLoading(false)

	wasAdmin := c.store.IsAdmin()

	var err error
	if wasAdmin {
		err = c.api.AdminLogout(ctx)
	} else {
		err = c.api.Logout(ctx)
	}
	if err != nil {
		c.log.Warn(ctx, "logout request failed, clearing local session anyway", "error", err)
	}

	c.store.Logout()
	c.otp = OTPState{}
	c.store.AddNotification(NotificationSuccess, "Logged out successfully!")

	if wasAdmin {
		c.nav.NavigateTo(PathAdminLogin)
	} else {
		c.nav.NavigateTo(PathHome)
	}
}

// ForgotPassword asks the server to send reset instructions.
func (c *Controller) ForgotPassword(ctx context.Context, identifier string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.ForgotPassword(ctx, identifier); err != nil {
		return c.fail(err, "Failed to send reset instructions")
	}

	c.store.AddNotification(NotificationSuccess, "Password reset instructions sent to your phone/email!")
	return nil
}

// ResetPassword completes a password reset and sends the user to login.
func (c *Controller) ResetPassword(ctx context.Context, token, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin()
	defer c.store.SetLoading(false)

	if err := c.api.ResetPassword(ctx, token, newPassword); err != nil {
		return c.fail(err, "Password reset failed")
	}

	c.store.AddNotification(NotificationSuccess, "Password reset successful! Please login with your new password.")
	c.nav.NavigateTo(PathLogin)
	return nil
}

func (c *Controller) navigateByRole() {
	if c.store.IsAdmin() {
		c.nav.NavigateTo(PathAdminDashboard)
	} else {
		c.nav.NavigateTo(PathDashboard)
	}
}
