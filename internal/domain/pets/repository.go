package pets

import (
	"context"
	"errors"
)

// ErrNotFound: no existe mascota con ese (owner, pet id).
// Los adapters deben devolver este sentinel (via errors.Is) cuando el
// lookup no matchea; cualquier otro error es falla de store y se propaga
// tal cual. No confundir ambos: el caller decide distinto en cada caso.
var ErrNotFound = errors.New("pet not found")

type Repository interface {
	Create(ctx context.Context, p Pet) error

	// GetByOwnerAndID scopea por owner Y por id: una mascota de otro
	// owner es ErrNotFound, no forbidden.
	GetByOwnerAndID(ctx context.Context, ownerUserID, petID string) (Pet, error)

	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)

	// ListAll devuelve todas las mascotas del sistema (lo usa el thinker).
	ListAll(ctx context.Context) ([]Pet, error)

	// UpdateTrainedState reemplaza ambos sets completos (el caller ya
	// calculó la unión). Owner-scoped igual que el Get.
	UpdateTrainedState(ctx context.Context, ownerUserID, petID string, commands, trainedWords []string) error
}
