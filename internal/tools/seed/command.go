package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/database"
	"github.com/firstrankcoders/credential-service/internal/security"
	"github.com/firstrankcoders/credential-service/internal/tools/common"
)

type options struct {
	envFile  string
	email    string
	password string
	timeout  time.Duration
	ci       bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Development seed data tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.email, "email", "", "override SEED_DEV_ACCOUNT_EMAIL")
	cmd.PersistentFlags().StringVar(&opts.password, "password", "", "override SEED_DEV_ACCOUNT_PASSWORD")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts), newVerifyEmailCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Create the verified dev account and its profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOnError(common.Run(opts.runOptions("apply"), func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer closeDB(db)
				email, password := opts.account(cfg)
				return applySeed(db, security.NewPasswordHasher(cfg.PasswordHashCost), email, password)
			}))
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOnError(common.Run(opts.runOptions("dry-run"), func(ctx context.Context) ([]string, error) {
				if err := common.LoadEnvFile(opts.envFile); err != nil {
					return nil, err
				}
				cfg, err := config.Load()
				if err != nil {
					return nil, err
				}
				email, _ := opts.account(cfg)
				if email == "" {
					return []string{"no dev account configured, nothing to seed"}, nil
				}
				return []string{
					fmt.Sprintf("would ensure verified auth record for %s", email),
					"would ensure an ADMIN user profile linked to it",
				}, nil
			}))
		},
	}
}

func newVerifyEmailCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Mark an account email as verified",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitOnError(common.Run(opts.runOptions("verify-email"), func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer closeDB(db)
				return verifyEmail(db, email)
			}))
		},
	}
	cmd.Flags().StringVar(&email, "address", "", "email to mark verified")
	return cmd
}

func applySeed(db *gorm.DB, hasher *security.PasswordHasher, email, password string) ([]string, error) {
	if strings.TrimSpace(email) == "" {
		return []string{"no dev account configured, nothing to seed"}, nil
	}
	if password == "" {
		return nil, errors.New("a seed password is required when a seed email is set")
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	report, err := database.SeedDevAccount(db, email, hash)
	if err != nil {
		return nil, err
	}
	if report.Noop {
		return []string{"dev account already present: " + email}, nil
	}
	return []string{
		fmt.Sprintf("auth records created: %d", report.CreatedAuthRecords),
		fmt.Sprintf("user profiles created: %d", report.CreatedUserProfiles),
	}, nil
}

func verifyEmail(db *gorm.DB, email string) ([]string, error) {
	email = strings.TrimSpace(email)
	if err := database.MarkEmailVerified(db, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no account with email %s", email)
		}
		return nil, err
	}
	return []string{"marked email verified: " + email}, nil
}

func (o *options) account(cfg *config.Config) (string, string) {
	email, password := cfg.SeedDevAccountEmail, cfg.SeedDevAccountPassword
	if o.email != "" {
		email = o.email
	}
	if o.password != "" {
		password = o.password
	}
	return strings.TrimSpace(email), password
}

func (o *options) runOptions(command string) common.RunOptions {
	return common.RunOptions{Tool: "seed", Command: command, CI: o.ci, Timeout: o.timeout}
}

func exitOnError(_ []string, err error) error {
	if err != nil {
		os.Exit(common.ExitCodeFailure)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
