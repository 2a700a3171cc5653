package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"petoverse-backend/internal/domain/pets"
	"petoverse-backend/internal/platform/logger"
	"petoverse-backend/internal/ports/llm"

	"github.com/google/uuid"
)

const (
	// Una pasada por hora, igual que el backend original.
	DefaultInterval = 3600 * time.Second

	thinkerSystemPrompt = "You're a smart pet agent that cares for the user."
)

// PetLister es lo único que el thinker necesita del módulo pets.
type PetLister interface {
	ListAll(ctx context.Context) ([]pets.Pet, error)
}

// Thinker es el loop de fondo que, cada `interval`, genera un mensaje
// proactivo corto por cada mascota del sistema y lo guarda como
// Notification. Corre en una sola goroutine, arranca con Start y solo
// para con Stop (shutdown del proceso).
//
// Aislamiento de fallas: el loop atiende muchas mascotas; que una falle
// (store o modelo) no puede callar las notificaciones del resto ni
// frenar el loop.
type Thinker struct {
	pets PetLister
	repo Repository
	llm  llm.Client
	log  logger.Logger

	interval time.Duration
	now      func() time.Time
	newID    func() string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewThinker(petsSvc PetLister, repo Repository, client llm.Client, log logger.Logger, interval time.Duration) *Thinker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Thinker{
		pets:     petsSvc,
		repo:     repo,
		llm:      client,
		log:      log,
		interval: interval,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start lanza el loop en background. No bloquea. Idempotente.
func (t *Thinker) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.loop()
	t.log.Info("thinker started", map[string]any{"interval": t.interval.String()})
}

// Stop frena el loop y espera a que termine la pasada en curso.
func (t *Thinker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	done := t.done
	t.mu.Unlock()

	<-done
	t.log.Info("thinker stopped", nil)
}

func (t *Thinker) loop() {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	// Primera pasada inmediata; después una por tick.
	t.RunCycle(context.Background())

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.RunCycle(context.Background())
		}
	}
}

// RunCycle hace una pasada completa sobre todas las mascotas.
// Expuesto para poder testear un ciclo sin el timer.
func (t *Thinker) RunCycle(ctx context.Context) {
	all, err := t.pets.ListAll(ctx)
	if err != nil {
		t.log.Error("thinker: list pets failed", map[string]any{"error": err.Error()})
		return
	}

	for _, p := range all {
		if err := t.thinkForPet(ctx, p); err != nil {
			// Falla aislada: logueamos y seguimos con la siguiente.
			t.log.Error("thinker: pet cycle failed", map[string]any{
				"pet_id": p.ID,
				"error":  err.Error(),
			})
		}
	}
}

func (t *Thinker) thinkForPet(ctx context.Context, p pets.Pet) error {
	prompt := fmt.Sprintf("You are %s the %s. What should I notify your owner today?", p.Name, p.Type)

	thought, err := t.llm.Generate(ctx, thinkerSystemPrompt, prompt, llm.ThinkOptions())
	if err != nil {
		return fmt.Errorf("generate thought: %w", err)
	}

	n := Notification{
		ID:        t.newID(),
		PetID:     p.ID,
		Message:   thought,
		CreatedAt: t.now(),
	}
	if err := t.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}
