package migrate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/database"
	"github.com/firstrankcoders/credential-service/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Credential store schema tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newCommand(opts, "up", "Apply schema migrations", migrateUp),
		newCommand(opts, "status", "Check connectivity and list missing tables", migrateStatus),
		newCommand(opts, "plan", "Show which tables a migration would create", migratePlan),
	)
	return cmd
}

type action func(ctx context.Context, db *gorm.DB) ([]string, error)

func newCommand(opts *options, use, short string, fn action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := common.Run(common.RunOptions{Tool: "migrate", Command: use, CI: opts.ci, Timeout: opts.timeout},
				func(ctx context.Context) ([]string, error) {
					db, err := openDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					if sqlDB, err := db.DB(); err == nil {
						defer func() { _ = sqlDB.Close() }()
					}
					return fn(ctx, db)
				})
			if err != nil {
				os.Exit(common.ExitCodeFailure)
			}
			return nil
		},
	}
}

func migrateUp(_ context.Context, db *gorm.DB) ([]string, error) {
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	details := []string{"schema migration applied"}
	if len(pending) > 0 {
		details = append(details, "created tables: "+strings.Join(pending, ", "))
	}
	return details, nil
}

func migrateStatus(ctx context.Context, db *gorm.DB) ([]string, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	details := []string{"database reachable"}
	if len(pending) == 0 {
		return append(details, "schema up to date"), nil
	}
	return append(details, "missing tables: "+strings.Join(pending, ", ")), nil
}

func migratePlan(ctx context.Context, db *gorm.DB) ([]string, error) {
	pending, err := database.PendingTables(db)
	if err != nil {
		return nil, err
	}
	details := []string{"would run AutoMigrate for auth_records and user_profiles"}
	for _, table := range pending {
		details = append(details, "would create table "+table)
	}
	return append(details, "no mutation executed in plan mode"), nil
}

func openDB(envFile string) (*gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg)
}
