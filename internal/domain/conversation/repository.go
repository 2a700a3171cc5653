package conversation

import "context"

// TurnsRepository persiste el historial de conversación por mascota.
//
// El orden lo asigna el store en Append (timestamp monotónico por mascota):
// dos turnos appendeados en secuencia nunca se leen invertidos. El service
// no setea CreatedAt; el repo lo completa al persistir.
type TurnsRepository interface {
	// Append durable: no reordena ni pisa turnos previos.
	Append(ctx context.Context, t Turn) error

	// RecentByPet devuelve los últimos `limit` turnos, el más reciente primero.
	RecentByPet(ctx context.Context, petID string, limit int) ([]Turn, error)
}
