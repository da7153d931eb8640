package entity

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConsulta  = "consulta"
)

// User cuenta que puede iniciar sesión; su Username queda como operador de los movimientos.
type User struct {
	Username     string
	PasswordHash string // bcrypt
	Role         string // admin, bodeguero, consulta
}

// ValidRole indica si role es uno de los roles reconocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleConsulta:
		return true
	}
	return false
}
