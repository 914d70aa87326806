package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/secureballot/cli/internal/common"
)

// TokenSource supplies the current access token for authenticated calls.
// An empty return means no session is established yet.
type TokenSource func() string

// HTTPClient talks to the authentication API over HTTP/JSON. Every endpoint
// responds with an envelope of the form
//
//	{"success": bool, "message": "...", "data": {...}}
//
// which is decoded here; callers only ever see typed payloads or errors.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewHTTPClient builds a client for the API rooted at baseURL. The token
// source may be nil for clients that only perform unauthenticated calls.
func NewHTTPClient(baseURL string, timeout time.Duration, token TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// envelope is the wire form shared by all endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// post sends body as JSON to path and decodes the envelope. On success the
// data portion is unmarshalled into out (when out is non-nil) and the
// envelope message is returned. Transport-level failures map to
// common.ErrUnavailable; envelope failures map to *Error.
func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) (string, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return "", fmt.Errorf("encoding request for %s: %w", path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, common.ErrUnavailable)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Non-JSON body, e.g. a proxy error page.
		return "", &Error{Status: resp.StatusCode}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return "", &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return env.Message, nil
}

// authPayload tolerates both wire spellings of the user object: newer
// endpoints use "user", the legacy login and USSD endpoints use "voter".
type authPayload struct {
	Token       string `json:"token"`
	User        *User  `json:"user"`
	Voter       *User  `json:"voter"`
	RequiresMfa bool   `json:"requiresMfa"`
}

func (p authPayload) result() AuthResult {
	res := AuthResult{Token: p.Token, RequiresMfa: p.RequiresMfa}
	switch {
	case p.User != nil:
		res.User = *p.User
	case p.Voter != nil:
		res.User = *p.Voter
	}
	return res
}

func (c *HTTPClient) RequestVoterLogin(ctx context.Context, nin, vin string) (OTPChallenge, error) {
	var ch OTPChallenge
	msg, err := c.post(ctx, "/auth/voter/request-login", map[string]string{"nin": nin, "vin": vin}, &ch)
	if err != nil {
		return OTPChallenge{}, err
	}
	ch.Message = msg
	return ch, nil
}

func (c *HTTPClient) VerifyVoterOTP(ctx context.Context, userID, code string) (AuthResult, error) {
	var p authPayload
	if _, err := c.post(ctx, "/auth/voter/verify-otp", map[string]string{"userId": userID, "otpCode": code}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

func (c *HTTPClient) ResendVoterOTP(ctx context.Context, userID string) (OTPChallenge, error) {
	var ch OTPChallenge
	msg, err := c.post(ctx, "/auth/voter/resend-otp", map[string]string{"userId": userID}, &ch)
	if err != nil {
		return OTPChallenge{}, err
	}
	ch.Message = msg
	return ch, nil
}

func (c *HTTPClient) AdminLogin(ctx context.Context, nin, password string) (AuthResult, error) {
	var p authPayload
	if _, err := c.post(ctx, "/admin/login", map[string]string{"nin": nin, "password": password}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	var p authPayload
	if _, err := c.post(ctx, "/auth/login", map[string]string{"identifier": identifier, "password": password}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

func (c *HTTPClient) Register(ctx context.Context, payload RegisterPayload) error {
	_, err := c.post(ctx, "/auth/register", payload, nil)
	return err
}

func (c *HTTPClient) VerifyMFA(ctx context.Context, userID, token string) error {
	_, err := c.post(ctx, "/auth/mfa/verify", map[string]string{"userId": userID, "token": token}, nil)
	return err
}

func (c *HTTPClient) SetupMFA(ctx context.Context) (MFASetup, error) {
	var s MFASetup
	if _, err := c.post(ctx, "/auth/mfa/setup", nil, &s); err != nil {
		return MFASetup{}, err
	}
	return s, nil
}

func (c *HTTPClient) EnableMFA(ctx context.Context, token string) error {
	_, err := c.post(ctx, "/auth/mfa/enable", map[string]string{"token": token}, nil)
	return err
}

func (c *HTTPClient) DisableMFA(ctx context.Context, token string) error {
	_, err := c.post(ctx, "/auth/mfa/disable", map[string]string{"token": token}, nil)
	return err
}

func (c *HTTPClient) GenerateBackupCodes(ctx context.Context) ([]string, error) {
	var data struct {
		Codes []string `json:"codes"`
	}
	if _, err := c.post(ctx, "/auth/mfa/backup-codes/generate", nil, &data); err != nil {
		return nil, err
	}
	return data.Codes, nil
}

func (c *HTTPClient) VerifyBackupCode(ctx context.Context, code string) error {
	_, err := c.post(ctx, "/auth/mfa/backup-codes/verify", map[string]string{"code": code}, nil)
	return err
}

func (c *HTTPClient) RefreshToken(ctx context.Context) (AuthResult, error) {
	var p authPayload
	if _, err := c.post(ctx, "/auth/refresh-token", nil, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.post(ctx, "/auth/logout", nil, nil)
	return err
}

func (c *HTTPClient) AdminLogout(ctx context.Context) error {
	_, err := c.post(ctx, "/admin/logout", nil, nil)
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, identifier string) error {
	_, err := c.post(ctx, "/auth/forgot-password", map[string]string{"identifier": identifier}, nil)
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.post(ctx, "/auth/reset-password", map[string]string{"token": token, "newPassword": newPassword}, nil)
	return err
}

func (c *HTTPClient) USSDAuthenticate(ctx context.Context, nin, vin, phone string) (USSDInitiation, error) {
	var u USSDInitiation
	if _, err := c.post(ctx, "/auth/ussd/authenticate", map[string]string{"nin": nin, "vin": vin, "phoneNumber": phone}, &u); err != nil {
		return USSDInitiation{}, err
	}
	return u, nil
}

func (c *HTTPClient) USSDVerifySession(ctx context.Context, sessionCode string) (AuthResult, error) {
	var p authPayload
	if _, err := c.post(ctx, "/auth/ussd/verify-session", map[string]string{"sessionCode": sessionCode}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

var _ Client = (*HTTPClient)(nil)
