// Package file es el store legacy: un JSON por mascota en disco,
// nombrado {owner_id}_{pet_id}.json. No es el path principal, pero el
// formato tiene que seguir siendo round-trippable con los datos viejos.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"petoverse-backend/internal/domain/conversation"
	"petoverse-backend/internal/domain/pets"
)

// petFile es el formato en disco. No se le agregan campos: archivos
// escritos por el backend viejo se leen y se reescriben idénticos en shape.
type petFile struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Traits       []string   `json:"traits"`
	Commands     []string   `json:"commands"`
	TrainedWords []string   `json:"trained_words"`
	History      []exchange `json:"history"`
}

// exchange es un intercambio mensaje/respuesta del historial legacy.
type exchange struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// Store implementa pets.Repository y conversation.TurnsRepository sobre
// el directorio de archivos. Un solo lock para todo: es un store de dev.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file store: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: mkdir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(ownerUserID, petID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", ownerUserID, petID))
}

// ------------------------------------------------------------------
// pets.Repository
// ------------------------------------------------------------------

func (s *Store) Create(ctx context.Context, p pets.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(p.OwnerUserID, p.ID)
	if _, err := os.Stat(path); err == nil {
		return errors.New("file store: pet already exists")
	}

	return s.write(path, petFile{
		Name:         p.Name,
		Type:         p.Type,
		Traits:       emptyIfNil(p.Traits),
		Commands:     emptyIfNil(p.Commands),
		TrainedWords: emptyIfNil(p.TrainedWords),
		History:      []exchange{},
	})
}

func (s *Store) GetByOwnerAndID(ctx context.Context, ownerUserID, petID string) (pets.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(s.path(ownerUserID, petID))
	if err != nil {
		return pets.Pet{}, err
	}
	return toPet(ownerUserID, petID, doc), nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	return s.list(func(owner, _ string) bool { return owner == ownerUserID })
}

func (s *Store) ListAll(ctx context.Context) ([]pets.Pet, error) {
	return s.list(func(_, _ string) bool { return true })
}

func (s *Store) UpdateTrainedState(ctx context.Context, ownerUserID, petID string, commands, trainedWords []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(ownerUserID, petID)
	doc, err := s.read(path)
	if err != nil {
		return err
	}

	doc.Commands = emptyIfNil(commands)
	doc.TrainedWords = emptyIfNil(trainedWords)
	return s.write(path, doc)
}

// ------------------------------------------------------------------
// conversation.TurnsRepository
// ------------------------------------------------------------------

// Append traduce turnos al historial legacy de pares message/response:
// un turno user abre un intercambio nuevo, el turno pet siguiente lo cierra.
func (s *Store) Append(ctx context.Context, t conversation.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, doc, err := s.findByPetID(t.PetID)
	if err != nil {
		return err
	}

	switch t.Role {
	case conversation.RoleUser:
		doc.History = append(doc.History, exchange{Message: t.Content})
	case conversation.RolePet:
		if n := len(doc.History); n > 0 && doc.History[n-1].Response == "" {
			doc.History[n-1].Response = t.Content
		} else {
			doc.History = append(doc.History, exchange{Response: t.Content})
		}
	default:
		return fmt.Errorf("file store: unknown role %q", t.Role)
	}

	return s.write(path, doc)
}

func (s *Store) RecentByPet(ctx context.Context, petID string, limit int) ([]conversation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, doc, err := s.findByPetID(petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Aplanar pares a turnos en orden cronológico.
	flat := make([]conversation.Turn, 0, len(doc.History)*2)
	for _, ex := range doc.History {
		if ex.Message != "" {
			flat = append(flat, conversation.Turn{PetID: petID, Role: conversation.RoleUser, Content: ex.Message})
		}
		if ex.Response != "" {
			flat = append(flat, conversation.Turn{PetID: petID, Role: conversation.RolePet, Content: ex.Response})
		}
	}

	if limit <= 0 || limit > len(flat) {
		limit = len(flat)
	}

	// Más reciente primero.
	out := make([]conversation.Turn, 0, limit)
	for i := len(flat) - 1; i >= len(flat)-limit; i-- {
		out = append(out, flat[i])
	}
	return out, nil
}

// ------------------------------------------------------------------
// internals
// ------------------------------------------------------------------

func (s *Store) read(path string) (petFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return petFile{}, pets.ErrNotFound
		}
		return petFile{}, fmt.Errorf("file store: read: %w", err)
	}

	var doc petFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return petFile{}, fmt.Errorf("file store: decode %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func (s *Store) write(path string, doc petFile) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	return nil
}

func (s *Store) list(keep func(owner, petID string) bool) ([]pets.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: readdir: %w", err)
	}

	out := make([]pets.Pet, 0)
	for _, e := range entries {
		owner, petID, ok := splitKey(e.Name())
		if !ok || !keep(owner, petID) {
			continue
		}
		doc, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			// archivo corrupto o ajeno: se saltea, no rompe el listado
			continue
		}
		out = append(out, toPet(owner, petID, doc))
	}
	return out, nil
}

func (s *Store) findByPetID(petID string) (string, petFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", petFile{}, fmt.Errorf("file store: readdir: %w", err)
	}
	for _, e := range entries {
		_, pid, ok := splitKey(e.Name())
		if !ok || pid != petID {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		doc, err := s.read(path)
		if err != nil {
			return "", petFile{}, err
		}
		return path, doc, nil
	}
	return "", petFile{}, pets.ErrNotFound
}

// splitKey parsea "{owner}_{pet}.json". El pet id no lleva "_" (uuid);
// el owner puede llevar, así que se corta por el último "_".
func splitKey(name string) (owner, petID string, ok bool) {
	if !strings.HasSuffix(name, ".json") {
		return "", "", false
	}
	base := strings.TrimSuffix(name, ".json")
	i := strings.LastIndex(base, "_")
	if i <= 0 || i == len(base)-1 {
		return "", "", false
	}
	return base[:i], base[i+1:], true
}

func toPet(ownerUserID, petID string, doc petFile) pets.Pet {
	return pets.Pet{
		ID:           petID,
		OwnerUserID:  ownerUserID,
		Name:         doc.Name,
		Type:         doc.Type,
		Traits:       emptyIfNil(doc.Traits),
		Commands:     emptyIfNil(doc.Commands),
		TrainedWords: emptyIfNil(doc.TrainedWords),
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
