package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/config"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	router "github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/handlers"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/logging"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/repositories"
)

// App holds the process-wide dependencies built before any command runs.
type App struct {
	env    config.Env
	logger *zap.Logger
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:           "engine",
		Short:         "Trip participation and tiered pricing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initApp() error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(env.AppEnv)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app = &App{env: env, logger: logger}
	return nil
}

func serveCmd() *cobra.Command {
	var (
		migrate bool
		demo    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), migrate, demo)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving (MySQL only)")
	cmd.Flags().BoolVar(&demo, "demo", false, "seed a demo trip and person (memory store only)")
	return cmd
}

func migrateCmd() *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.env.DBDSN == config.MemoryDSN {
				return errors.New("migrate needs a MySQL DB_DSN")
			}
			ctx := cmd.Context()
			db, err := config.ConnectDB(ctx, app.env.DBDSN)
			if err != nil {
				return err
			}
			defer config.CloseDB()
			if status {
				pending, err := repositories.PendingMigrations(ctx, db)
				if err != nil {
					return err
				}
				app.logger.Info("migration status", zap.Strings("pending", pending), zap.Int("count", len(pending)))
				return nil
			}
			return runMigrations(ctx, db)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list pending migrations without applying them")
	return cmd
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	ran, err := repositories.RunMigrations(ctx, db)
	if err != nil {
		return err
	}
	app.logger.Info("migrations applied", zap.Strings("files", ran), zap.Int("count", len(ran)))
	return nil
}

func serve(ctx context.Context, migrate, demo bool) error {
	env, log := app.env, app.logger
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	h := &handlers.Handlers{
		Logger:                    log,
		RequireApprovalForPayment: env.RequireApprovalForPayment,
	}

	if env.DBDSN == config.MemoryDSN {
		mem := repositories.NewMemoryStore()
		if demo {
			seedDemo(mem)
		}
		h.Store = mem
		log.Warn("using in-memory store; data is lost on exit")
	} else {
		db, err := config.ConnectDB(ctx, env.DBDSN)
		if err != nil {
			return err
		}
		defer config.CloseDB()
		if migrate {
			if err := runMigrations(ctx, db); err != nil {
				return err
			}
		} else if pending, err := repositories.PendingMigrations(ctx, db); err != nil {
			log.Warn("failed to check migrations", zap.Error(err))
		} else if len(pending) > 0 {
			log.Warn("database has pending migrations", zap.Strings("pending", pending))
		}
		h.Store = repositories.NewMySQLStore(db)
		h.Ping = config.PingDB
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(env, h, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func seedDemo(s *repositories.MemoryStore) {
	tierB, tierC := int64(7500), int64(5000)
	s.PutThing(models.SellableThing{
		ID:   1,
		Kind: models.KindTrip,
		Name: "Summer Retreat",
		Base: models.NewTierPriceTable(10000, &tierB, &tierC),
	})
	s.PutThing(models.SellableThing{
		ID:   2,
		Kind: models.KindStoreItem,
		Name: "Bible Notebook",
		Base: models.NewTierPriceTable(1500, nil, nil),
	})
	s.PutPerson(models.Person{ID: 1, Name: "Demo Participant", Tier: models.TierNormal})
	s.PutPerson(models.Person{ID: 2, Name: "Demo Servant", Tier: models.TierB})
}
