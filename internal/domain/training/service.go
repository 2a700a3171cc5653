package training

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petoverse-backend/internal/domain/pets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service entrena comandos sobre una mascota existente. Pura orquestación:
// lee el estado actual, calcula la unión y persiste el reemplazo.
type Service struct {
	pets *pets.Service
}

func NewService(petsSvc *pets.Service) *Service {
	return &Service{pets: petsSvc}
}

// Train agrega `command` al set de comandos Y al vocabulario entrenado.
// Unión de sets: entrenar dos veces lo mismo deja el estado igual que una.
// Mascota inexistente para ese owner => pets.ErrNotFound (error reportado,
// no un no-op silencioso).
func (s *Service) Train(ctx context.Context, ownerUserID, petID, command string) error {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(petID) == "" {
		return ErrInvalidInput
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrInvalidInput
	}

	pet, err := s.pets.GetByOwnerAndID(ctx, ownerUserID, petID)
	if err != nil {
		return err
	}

	commands := pets.Union(pet.Commands, command)
	words := pets.Union(pet.TrainedWords, command)

	if err := s.pets.UpdateTrainedState(ctx, ownerUserID, petID, commands, words); err != nil {
		return fmt.Errorf("persist trained state: %w", err)
	}
	return nil
}
