package entity

type Role uint8

const (
	RoleUnknown Role = 0
	RoleAdmin   Role = 1
)

var RoleMap = map[Role]string{
	RoleAdmin: "admin",
}

func (r Role) String() string {
	return RoleMap[r]
}

func ParseRole(s string) Role {
	for role, name := range RoleMap {
		if name == s {
			return role
		}
	}
	return RoleUnknown
}

// AdminLoginData is the identity carried by a verified admin token.
type AdminLoginData struct {
	Subject string
	Role    Role
}
