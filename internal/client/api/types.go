package api

import "time"

// User is the user object as returned by the authentication API. The API
// does not always populate Role; flows that know the role construct the
// session user explicitly from these fields.
type User struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Role            string `json:"role"`
	IsVerified      bool   `json:"isVerified"`
	IsActive        bool   `json:"isActive"`
	State           string `json:"state"`
	Gender          string `json:"gender"`
	LGA             string `json:"lga"`
	Ward            string `json:"ward"`
	PollingUnitCode string `json:"pollingUnitCode"`
}

// OTPChallenge is returned when an OTP has been issued for a voter login.
// Message carries the server's human-readable confirmation, if any.
type OTPChallenge struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
	Message   string    `json:"-"`
}

// AuthResult is the normalized outcome of any login or verification call
// that establishes a session.
type AuthResult struct {
	Token       string
	User        User
	RequiresMfa bool
}

// MFASetup holds the enrollment material returned by the MFA setup endpoint.
type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpAuthUrl"`
	QRCode     string `json:"qrCode"`
}

// USSDInitiation describes an out-of-band USSD session started on the
// carrier side. The session code itself arrives on the voter's phone.
type USSDInitiation struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterPayload is the voter registration request body.
type RegisterPayload struct {
	NIN             string `json:"nin"`
	VIN             string `json:"vin"`
	PhoneNumber     string `json:"phoneNumber"`
	DateOfBirth     string `json:"dateOfBirth"`
	Password        string `json:"password"`
	FullName        string `json:"fullName"`
	PollingUnitCode string `json:"pollingUnitCode"`
	State           string `json:"state"`
	Gender          string `json:"gender"`
	LGA             string `json:"lga"`
	Ward            string `json:"ward"`
}
