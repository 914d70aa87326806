package session

import "github.com/secureballot/cli/internal/client/api"

// Role identifies which side of the platform a user belongs to.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// User is the authenticated user held in the session store.
type User struct {
	ID              string `json:"id"`
	Role            Role   `json:"role"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	IsVerified      bool   `json:"isVerified"`
	IsActive        bool   `json:"isActive"`
	State           string `json:"state"`
	Gender          string `json:"gender"`
	LGA             string `json:"lga"`
	Ward            string `json:"ward"`
	PollingUnitCode string `json:"pollingUnitCode"`
}

// UserFromAPI builds a session user from API fields plus the role the flow
// establishes. The role reported on the wire is ignored on purpose: each
// login variant knows which side of the platform it authenticates against.
func UserFromAPI(u api.User, role Role) User {
	return User{
		ID:              u.ID,
		Role:            role,
		FullName:        u.FullName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		IsVerified:      u.IsVerified,
		IsActive:        u.IsActive,
		State:           u.State,
		Gender:          u.Gender,
		LGA:             u.LGA,
		Ward:            u.Ward,
		PollingUnitCode: u.PollingUnitCode,
	}
}

// UserPatch is a partial update applied to the current user. Nil fields are
// left untouched.
type UserPatch struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	IsVerified  *bool
	IsActive    *bool
}
