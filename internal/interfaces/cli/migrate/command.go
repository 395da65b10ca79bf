package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerline/depositd/internal/infrastructure/database"
	"github.com/ledgerline/depositd/internal/infrastructure/migration"
	"github.com/ledgerline/depositd/internal/interfaces/cli/common"
)

const defaultCreateDir = "./internal/infrastructure/migration/scripts/goose"

var (
	env        string
	configPath string
	name       string
	dir        string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

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
		Long:  `Apply all pending database migrations. SQLite databases are migrated from the models instead of SQL scripts.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVarP(&dir, "dir", "d", defaultCreateDir, "Directory to write the migration into")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runUp(cmd *cobra.Command, args []string) error {
	e, err := common.Bootstrap(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	log := e.Logger
	log.Infow("running up migrations", "environment", env)

	var strategy migration.Strategy = migration.NewGooseStrategy(dir, log)
	if e.Config.Database.Driver == database.DriverSQLite {
		strategy = migration.NewGormAutoMigrateStrategy(log)
	}

	if err := migration.NewManagerWithStrategy(strategy, log).Migrate(e.DB); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully", "strategy", strategy.GetName())
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	e, err := common.Bootstrap(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := requireSQLScripts(e.Config.Database.Driver); err != nil {
		return err
	}

	log := e.Logger
	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := migration.NewGooseStrategy(dir, log).MigrateDown(e.DB, steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := common.Bootstrap(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := requireSQLScripts(e.Config.Database.Driver); err != nil {
		return err
	}

	log := e.Logger
	strategy := migration.NewGooseStrategy(dir, log)

	version, err := strategy.GetVersion(e.DB)
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(e.DB); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	_, log, err := common.LoadConfig(env, configPath)
	if err != nil {
		return err
	}

	createDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve migration directory: %w", err)
	}

	if err := migration.NewGooseStrategy(createDir, log).Create(name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, createDir)
	return nil
}

func requireSQLScripts(driver string) error {
	if driver == database.DriverSQLite {
		return fmt.Errorf("sqlite databases are migrated from models; only 'up' is supported")
	}
	return nil
}
