package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"hris/internal/domain/advance"
	"hris/internal/domain/asset"
	"hris/internal/domain/audit"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/leave"
	"hris/internal/domain/notifications"
	"hris/internal/domain/payroll"
	"hris/internal/domain/resignation"
	"hris/internal/domain/timesheet"
	"hris/internal/domain/training"
	"hris/internal/platform/config"
	"hris/internal/platform/db"
	advancehandler "hris/internal/transport/http/handlers/advance"
	assethandler "hris/internal/transport/http/handlers/asset"
	audithandler "hris/internal/transport/http/handlers/audit"
	authhandler "hris/internal/transport/http/handlers/auth"
	corehandler "hris/internal/transport/http/handlers/core"
	leavehandler "hris/internal/transport/http/handlers/leave"
	notificationshandler "hris/internal/transport/http/handlers/notifications"
	payrollhandler "hris/internal/transport/http/handlers/payroll"
	resignationhandler "hris/internal/transport/http/handlers/resignation"
	timesheethandler "hris/internal/transport/http/handlers/timesheet"
	traininghandler "hris/internal/transport/http/handlers/training"
	"hris/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	taxTable, err := payroll.LoadTaxTable(cfg.TaxTablePath)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("tax table: %w", err)
	}

	app := &App{Config: cfg, DB: pool}
	app.Router = app.buildRouter(taxTable)
	return app, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func (a *App) buildRouter(taxTable payroll.TaxTable) http.Handler {
	cfg := a.Config
	pool := a.DB

	authStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(notifications.NewStore(pool))

	leaveSvc := leave.NewService(leave.NewStore(pool))
	payrollSvc := payroll.NewService(payroll.NewStore(pool), taxTable)
	advanceSvc := advance.NewService(advance.NewStore(pool))
	trainingSvc := training.NewService(training.NewStore(pool))
	resignationSvc := resignation.NewService(resignation.NewStore(pool))
	timesheetSvc := timesheet.NewService(timesheet.NewStore(pool))
	assetSvc := asset.NewService(asset.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		corehandler.NewHandler(coreStore, authStore, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, coreStore, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, coreStore, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		advancehandler.NewHandler(advanceSvc, coreStore, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		traininghandler.NewHandler(trainingSvc, coreStore, authStore, notifySvc).RegisterRoutes(r)
		resignationhandler.NewHandler(resignationSvc, coreStore, authStore, notifySvc, auditSvc).RegisterRoutes(r)
		timesheethandler.NewHandler(timesheetSvc, coreStore, authStore).RegisterRoutes(r)
		assethandler.NewHandler(assetSvc, coreStore, authStore, notifySvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
