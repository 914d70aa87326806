package session

// Navigator is the abstract "go to this screen" capability the controller
// triggers after state changes. The CLI tracks the current route; a web
// shell would push onto its router.
type Navigator interface {
	NavigateTo(path string)
}

// Application routes the controller navigates to.
const (
	PathHome           = "/"
	PathDashboard      = "/dashboard"
	PathAdminDashboard = "/admin/dashboard"
	PathVerifyMFA      = "/auth/verify-mfa"
	PathLogin          = "/auth/login"
	PathAdminLogin     = "/admin/login"
)
