package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"time"

	supaauth "petoverse-backend/internal/adapters/auth/supabase"
	llmadapters "petoverse-backend/internal/adapters/llm"
	"petoverse-backend/internal/adapters/llm/gemini"
	"petoverse-backend/internal/adapters/llm/nvidia"
	filestore "petoverse-backend/internal/adapters/storage/file"
	mem "petoverse-backend/internal/adapters/storage/memory"
	pg "petoverse-backend/internal/adapters/storage/postgres"
	redisstore "petoverse-backend/internal/adapters/storage/redis"
	"petoverse-backend/internal/domain/conversation"
	"petoverse-backend/internal/domain/notifications"
	"petoverse-backend/internal/domain/pets"
	"petoverse-backend/internal/domain/training"
	"petoverse-backend/internal/middleware"
	"petoverse-backend/internal/platform/logger"
	"petoverse-backend/internal/ports/auth"
	llmport "petoverse-backend/internal/ports/llm"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, decide por env.
	DB *sql.DB

	// Opcional: si viene, el historial va a Redis.
	Redis *goredis.Client

	// Opcional: provider de completions ya armado (tests). Si no,
	// se elige por env (NVIDIA > Gemini > mock).
	LLM llmport.Client

	Logger logger.Logger
}

// App es lo que arma el router: el handler HTTP más el thinker listo
// para arrancar desde main (el loop no arranca solo).
type App struct {
	Handler http.Handler
	Thinker *notifications.Thinker
}

func New(opts Options) App {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	verifier := opts.AuthVerifier
	if verifier == nil {
		if secret := os.Getenv("SUPABASE_JWT_SECRET"); secret != "" {
			if v, err := supaauth.NewVerifier(secret); err == nil {
				verifier = v
			}
		}
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		petRepo   pets.Repository
		turnsRepo conversation.TurnsRepository
		notifRepo notifications.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back", map[string]any{"error": err.Error()})
			}
		}
	}

	switch {
	case db != nil:
		petRepo = pg.NewPetsRepo(db)
		turnsRepo = pg.NewTurnsRepo(db)
		notifRepo = pg.NewNotificationsRepo(db)
	case os.Getenv("PET_DATA_DIR") != "":
		// Path legacy: JSON por mascota en disco.
		fs, err := filestore.NewStore(os.Getenv("PET_DATA_DIR"))
		if err == nil {
			petRepo = fs
			turnsRepo = fs
			notifRepo = mem.NewNotificationsRepo()
			break
		}
		log.Warn("file store unavailable, falling back", map[string]any{"error": err.Error()})
		fallthrough
	default:
		petRepo = mem.NewPetRepo()
		turnsRepo = mem.NewTurnsRepo()
		notifRepo = mem.NewNotificationsRepo()
	}

	// Redis pisa solo el historial: las mascotas siguen en el store elegido.
	rdb := opts.Redis
	if rdb == nil {
		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			rdb = goredis.NewClient(&goredis.Options{Addr: addr})
		}
	}
	if rdb != nil {
		turnsRepo = redisstore.NewTurnsRepo(rdb)
	}

	llmClient := opts.LLM
	if llmClient == nil {
		llmClient = llmFromEnv(log)
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	convSvc := conversation.NewService(
		petsSvc,
		turnsRepo,
		llmClient,
		log,
		conversation.PromptMode(os.Getenv("PROMPT_MODE")),
	)
	trainSvc := training.NewService(petsSvc)
	thinker := notifications.NewThinker(petsSvc, notifRepo, llmClient, log, thinkerIntervalFromEnv())

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	conversation.RegisterRoutes(r, convSvc)
	training.RegisterRoutes(r, trainSvc)

	return App{Handler: r, Thinker: thinker}
}

// llmFromEnv elige provider: NVIDIA si hay key, después Gemini, y si no
// el mock (dev sin red). El handle se crea UNA vez acá y se comparte;
// nunca se instancia por request.
func llmFromEnv(log logger.Logger) llmport.Client {
	if key := os.Getenv("NVIDIA_API_KEY"); key != "" {
		c, err := nvidia.NewClient(os.Getenv("NVIDIA_BASE_URL"), key, os.Getenv("NVIDIA_MODEL"))
		if err == nil {
			return c
		}
		log.Warn("nvidia client init failed", map[string]any{"error": err.Error()})
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c, err := gemini.NewClient(context.Background(), key, os.Getenv("GEMINI_MODEL"))
		if err == nil {
			return c
		}
		log.Warn("gemini client init failed", map[string]any{"error": err.Error()})
	}
	log.Info("no completion provider configured, using mock", nil)
	return llmadapters.NewMock()
}

func thinkerIntervalFromEnv() time.Duration {
	if v := os.Getenv("THINKER_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return notifications.DefaultInterval
}
