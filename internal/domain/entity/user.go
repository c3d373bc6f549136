package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleContador = "contador"
)

// User usuario de la aplicación, siempre ligado a una empresa (tenant).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | contador
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
