package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JayanathBuddhika/medical-practice-management/internal/config"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/admin"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/billing"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/consultation"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/dashboard"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/identity"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/investigation"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/patient"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/prescription"
	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/scheduling"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/middleware"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic practice management API server",
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool).Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			fmt.Printf("%-10s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, st := range statuses {
				state := "pending"
				appliedAt := ""
				if st.Applied {
					state = "applied"
					if st.AppliedAt != nil {
						appliedAt = st.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-10d %-30s %-10s %s\n", st.Version, st.Name, state, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := context.Background()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed.New(pool, logger).Run(ctx)
		},
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories and services
	sessionStore := auth.NewSessionStorePG(pool)
	identitySvc := identity.NewService(pool,
		identity.NewUserRepoPG(pool),
		identity.NewDoctorRepoPG(pool),
		identity.NewPrivilegeRepoPG(pool))
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	schedulingSvc := scheduling.NewService(scheduling.NewRepoPG(pool))
	consultationSvc := consultation.NewService(
		consultation.NewRepoPG(pool), consultation.NewVitalsRepoPG(pool))
	prescriptionSvc := prescription.NewService(
		prescription.NewRepoPG(pool), prescription.NewTemplateRepoPG(pool))
	investigationSvc := investigation.NewService(investigation.NewRepoPG(pool))
	billingSvc := billing.NewService(billing.NewRepoPG(pool))
	adminSvc := admin.NewService(pool,
		admin.NewSettingsRepoPG(pool), admin.NewDataRepoPG(pool))
	dashboardSvc := dashboard.NewService(dashboard.NewRepoPG(pool))

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Login and the health check sit outside the session gate.
	public := e.Group("/api")
	public.GET("/health", db.HealthHandler(pool))

	api := e.Group("/api")
	if cfg.IsDev() {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.SessionMiddleware(cfg.SessionSecret, sessionStore, identitySvc, logger))
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	identityHandler := identity.NewHandler(identitySvc, sessionStore, cfg.SessionSecret, sessionTTL, cfg.IsProduction())
	identityHandler.RegisterRoutes(public, api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)
	consultation.NewHandler(consultationSvc).RegisterRoutes(api)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)
	investigation.NewHandler(investigationSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	admin.NewHandler(adminSvc).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)

	// Expired session rows pile up otherwise.
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				if n, err := sessionStore.DeleteExpired(janitorCtx); err != nil {
					logger.Error().Err(err).Msg("session cleanup failed")
				} else if n > 0 {
					logger.Info().Int64("deleted", n).Msg("expired sessions removed")
				}
			}
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
