package notifications

import "time"

// Notification es un "pensamiento" generado por el thinker para una mascota.
// El core solo las escribe; la entrega al owner es problema de otro sistema.
type Notification struct {
	ID        string
	PetID     string
	Message   string
	CreatedAt time.Time
}
