package pets

import "time"

// Pet representa una mascota virtual de Petoverse.
// Name y Type son inmutables después de crear.
// Commands y TrainedWords son sets (sin duplicados) y solo crecen.
type Pet struct {
	ID          string
	OwnerUserID string

	Name string
	Type string // especie/categoría libre: "dragon", "dog", etc.

	Traits       []string
	Commands     []string
	TrainedWords []string

	// WalletAddress es passthrough: el core nunca lo usa.
	WalletAddress *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Seeds de toda mascota nueva.
var (
	DefaultTraits   = []string{"curious", "friendly"}
	DefaultCommands = []string{"sit", "roll"}
)

// HasCommand hace membership test independiente del orden.
func (p Pet) HasCommand(cmd string) bool { return contains(p.Commands, cmd) }

// HasTrainedWord hace membership test independiente del orden.
func (p Pet) HasTrainedWord(w string) bool { return contains(p.TrainedWords, w) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
