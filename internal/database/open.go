package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open connects to the store named by DATABASE_URL. A "sqlite:" prefix selects the embedded
// driver for local runs, anything else is handed to the postgres driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "connect", time.Since(start))
	}()

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	dialector := postgres.Open(cfg.DatabaseURL)
	if dsn, ok := strings.CutPrefix(cfg.DatabaseURL, sqlitePrefix); ok {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "connect", "error")
		return nil, fmt.Errorf("open database: %w", err)
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "connect", "success")
	return db, nil
}
