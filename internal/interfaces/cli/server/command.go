package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/database"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/migration"
	httpRouter "github.com/faqplusplus/faqplusplus/internal/interfaces/http"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/bootstrap"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	host        string
	port        int
	noScheduler bool
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the bot messaging endpoint, the admin and tickets API, and the knowledge base publish schedule.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVar(&host, "host", "", "Override the listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the listen port")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not run the knowledge base publish schedule in this instance")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.Environment(env)

	cfg, log, err := bootstrap.LoadWithDatabase(env)
	if err != nil {
		return err
	}
	defer database.Close()

	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	bootstrap.QuietGin(cfg.Server.Mode)

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"scheduler", !noScheduler,
		"languages", len(cfg.QnAMaker.Languages))

	if autoMigrate {
		if env == constants.EnvProduction {
			log.Warnw("auto-migration is enabled in production")
		}
		if err := migration.NewManager(cfg.Migration.Strategy, log).Up(database.Get()); err != nil {
			return err
		}
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire server: %w", err)
	}
	defer container.Shutdown()

	container.SetupRoutes()
	container.StartBackground(!noScheduler)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
