package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/domain/leave"
	"ems/internal/platform/config"
	"ems/internal/platform/db"
	"ems/internal/platform/jobs"
	"ems/internal/platform/metrics"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	attendancehandler "ems/internal/transport/http/handlers/attendance"
	authhandler "ems/internal/transport/http/handlers/auth"
	employeehandler "ems/internal/transport/http/handlers/employee"
	leavehandler "ems/internal/transport/http/handlers/leave"
	"ems/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Pool    *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// New builds the fully wired application. Tests construct it against a test
// database; main starts the scheduler and serves the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	employeeService := employee.NewService(employee.NewStore(pool))
	attendanceService := attendance.NewService(attendance.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool), attendanceService, cfg.AccrualMinPresent)
	jobsService := jobs.New(pool, leaveService, collector, cfg.SchedulerTick)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
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

	if cfg.MetricsEnabled {
		router.Get("/metricz", func(w http.ResponseWriter, r *http.Request) {
			user, ok := middleware.GetUser(r.Context())
			if !ok || user.Role != auth.RoleHR {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			api.Success(w, collector.Snapshot(), requestctx.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		employeehandler.NewHandler(employeeService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, jobsService).RegisterRoutes(r)
	})

	return &App{
		Config:  cfg,
		Pool:    pool,
		Router:  router,
		Jobs:    jobsService,
		Metrics: collector,
	}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}
