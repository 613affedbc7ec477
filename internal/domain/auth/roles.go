package auth

const (
	RoleEmployee       = "employee"
	RoleManager        = "manager"
	RoleDirector       = "director"
	RoleGeneralManager = "general_manager"
	RoleHR             = "hr"
)

var DefaultRoles = []string{
	RoleEmployee,
	RoleManager,
	RoleDirector,
	RoleGeneralManager,
	RoleHR,
}
