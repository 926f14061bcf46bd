package user

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleTourist   Role = "tourist"
	RoleGuide     Role = "guide"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAnonymous, RoleTourist, RoleGuide, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
