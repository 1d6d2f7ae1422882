package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "animal-rescue-ops/internal/adapters/storage/memory"
	pg "animal-rescue-ops/internal/adapters/storage/postgres"
	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/matching"
	"animal-rescue-ops/internal/domain/placements"
	"animal-rescue-ops/internal/domain/reports"
	"animal-rescue-ops/internal/middleware"
	"animal-rescue-ops/internal/platform/logger"
	"animal-rescue-ops/internal/ports/auth"
	"animal-rescue-ops/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev con headers X-Debug-*)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: nil => no se emiten eventos de placement.
	Notifier notify.Notifier

	// Opcional: nil => logger noop.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		animalsRepo animals.Repository
		fostersRepo fosters.Repository
		ledger      placements.Ledger
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		animalsRepo = pg.NewAnimalsRepo(db)
		fostersRepo = pg.NewFostersRepo(db)
		ledger = pg.NewPlacementsLedger(db)
	} else {
		store := mem.NewStore()
		animalsRepo = store.Animals()
		fostersRepo = store.Fosters()
		ledger = store.Placements()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalsRepo)
	fostersSvc := fosters.NewService(fostersRepo)
	placementsSvc := placements.NewService(ledger, opts.Notifier, opts.Logger)
	matchingSvc := matching.NewService(animalsRepo, fostersRepo)
	reportsSvc := reports.NewService(animalsRepo, fostersRepo, ledger)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	fosters.RegisterRoutes(r, fostersSvc)
	placements.RegisterRoutes(r, placementsSvc)
	matching.RegisterRoutes(r, matchingSvc)
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
