package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petoverse-backend/internal/domain/pets"
	"petoverse-backend/internal/platform/logger"
	"petoverse-backend/internal/ports/llm"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// PromptMode elige qué builder de system prompt usa el chat.
type PromptMode string

const (
	PromptPersona PromptMode = "persona"
	PromptContext PromptMode = "context"
)

const (
	// Ventana de contexto: solo los últimos 3 turnos alimentan el prompt.
	// Los más viejos quedan persistidos pero no se consultan.
	historyWindow = 3

	// Tope de la llamada al modelo. Vencido el plazo se trata igual
	// que cualquier falla de generación.
	defaultGenerateTimeout = 60 * time.Second

	unavailableReply = "Oops! The pet is currently unavailable."
)

func notFoundReply(ownerUserID, petID string) string {
	return fmt.Sprintf("No pet found with ID '%s' for user '%s'", petID, ownerUserID)
}

// Service orquesta un turno de chat completo:
// cargar mascota -> armar prompt -> generar -> persistir -> devolver.
// No guarda estado propio; todo vive en los repos.
type Service struct {
	pets  *pets.Service
	turns TurnsRepository
	llm   llm.Client
	log   logger.Logger

	mode       PromptMode
	genTimeout time.Duration
	newID      func() string
}

func NewService(petsSvc *pets.Service, turns TurnsRepository, client llm.Client, log logger.Logger, mode PromptMode) *Service {
	if mode != PromptContext {
		mode = PromptPersona
	}
	return &Service{
		pets:       petsSvc,
		turns:      turns,
		llm:        client,
		log:        log,
		mode:       mode,
		genTimeout: defaultGenerateTimeout,
		newID:      uuid.NewString,
	}
}

// HandleTurn procesa un turno. Siempre que el input sea válido devuelve
// ALGÚN texto: mascota inexistente y falla de generación se convierten en
// mensajes fijos, nunca en error duro. Solo los errores de store al cargar
// la mascota suben al caller.
//
// Éxito: exactamente dos turnos nuevos (user, luego pet) y el texto
// devuelto es el contenido del turno pet. Cortocircuitos: cero turnos.
func (s *Service) HandleTurn(ctx context.Context, ownerUserID, petID, userMessage string) (string, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(petID) == "" {
		return "", ErrInvalidInput
	}
	if strings.TrimSpace(userMessage) == "" {
		return "", ErrInvalidInput
	}

	pet, err := s.pets.GetByOwnerAndID(ctx, ownerUserID, petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			// No hay mascota: no se llama al modelo ni se toca el historial.
			return notFoundReply(ownerUserID, petID), nil
		}
		return "", fmt.Errorf("load pet: %w", err)
	}

	recent, err := s.turns.RecentByPet(ctx, pet.ID, historyWindow)
	if err != nil {
		// El historial es contexto, no requisito: seguimos sin él.
		s.log.Warn("recent turns unavailable", map[string]any{
			"pet_id": pet.ID,
			"error":  err.Error(),
		})
		recent = nil
	}

	var systemPrompt string
	switch s.mode {
	case PromptContext:
		systemPrompt = BuildContextPrompt(pet, recent)
	default:
		systemPrompt = BuildPersonaPrompt(pet, recent)
	}

	gctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	reply, err := s.llm.Generate(gctx, systemPrompt, userMessage, llm.ChatOptions())
	if err != nil {
		s.log.Error("generation failed", map[string]any{
			"pet_id": pet.ID,
			"error":  err.Error(),
		})
		return unavailableReply, nil
	}

	// Persistir el intercambio: primero el turno del usuario (ya ocurrió
	// seguro), después la respuesta. Si el store falla acá, la respuesta
	// igual se devuelve; la anomalía queda logueada, no silenciada.
	userTurn := Turn{ID: s.newID(), PetID: pet.ID, Role: RoleUser, Content: userMessage}
	if err := s.turns.Append(ctx, userTurn); err != nil {
		s.log.Error("history append failed", map[string]any{
			"pet_id": pet.ID,
			"role":   string(RoleUser),
			"error":  err.Error(),
		})
		return reply, nil
	}

	petTurn := Turn{ID: s.newID(), PetID: pet.ID, Role: RolePet, Content: reply}
	if err := s.turns.Append(ctx, petTurn); err != nil {
		s.log.Error("history append failed", map[string]any{
			"pet_id": pet.ID,
			"role":   string(RolePet),
			"error":  err.Error(),
		})
	}

	return reply, nil
}
