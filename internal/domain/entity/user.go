package entity

import "time"

// Roles de usuario (los chequeos de rol ocurren en el middleware HTTP,
// antes de llegar a los casos de uso).
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleTecnico   = "tecnico"
)

// User usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
