package migrate

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/config"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/database"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/migration"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/bootstrap"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

var (
	env      string
	strategy string
	name     string
	steps    int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", "", "Migration strategy: goose, golang-migrate or gorm (default from config)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create empty migration scripts for the selected strategy under the scripts directory.`,
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func manager(cfg *config.Config, log logger.Interface) *migration.Manager {
	s := strategy
	if s == "" {
		s = cfg.Migration.Strategy
	}
	return migration.NewManager(s, log)
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.LoadWithDatabase(bootstrap.Environment(env))
	if err != nil {
		return err
	}
	defer database.Close()

	return manager(cfg, log).Up(database.Get())
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.LoadWithDatabase(bootstrap.Environment(env))
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("rolling back migrations", "environment", env, "steps", steps)
	if err := manager(cfg, log).Down(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.LoadWithDatabase(bootstrap.Environment(env))
	if err != nil {
		return err
	}
	defer database.Close()

	m := manager(cfg, log)
	version, dirty, err := m.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Migration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Strategy:        %s\n", m.Strategy().Name())
	fmt.Fprintf(out, "  Current Version: %d\n", version)
	fmt.Fprintf(out, "  Dirty:           %t\n", dirty)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Load(bootstrap.Environment(env))
	if err != nil {
		return err
	}

	m := manager(cfg, log)
	dir, err := ScriptsDir(cfg.Migration.ScriptsPath, m.Strategy().Name())
	if err != nil {
		return err
	}

	paths, err := m.Create(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
	}
	return nil
}

// ScriptsDir is the directory holding the scripts of a strategy.
func ScriptsDir(root, strategyName string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve scripts path: %w", err)
	}
	switch strategyName {
	case migration.StrategyGoose:
		return filepath.Join(abs, "goose"), nil
	case migration.StrategyGolangMigrate:
		return filepath.Join(abs, "migrate"), nil
	default:
		return "", fmt.Errorf("strategy %s has no scripts", strategyName)
	}
}
