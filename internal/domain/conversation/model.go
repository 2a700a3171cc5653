package conversation

import "time"

// Role de un turno. Solo hay dos lados: el usuario y la mascota.
type Role string

const (
	RoleUser Role = "user"
	RolePet  Role = "pet"
)

// Turn es un mensaje del historial de una mascota.
// CreatedAt lo asigna el store al persistir (ver TurnsRepository).
type Turn struct {
	ID        string
	PetID     string
	Role      Role
	Content   string
	CreatedAt time.Time
}
