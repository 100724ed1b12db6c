package workflow

// Role identifies the position of an actor in the approval chain
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleAccounts   Role = "accounts"
	RoleManagement Role = "management"
)

var validRoles = map[Role]bool{
	RoleEmployee:   true,
	RoleSupervisor: true,
	RoleAccounts:   true,
	RoleManagement: true,
}

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSubmit returns true if the role is allowed to submit new bills
func (r Role) CanSubmit() bool {
	return r == RoleEmployee || r == RoleSupervisor
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
