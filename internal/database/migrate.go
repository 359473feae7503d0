package database

import (
	"context"
	"time"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"

	"gorm.io/gorm"
)

func models() []any {
	return []any{
		&domain.AuthRecord{},
		&domain.UserProfile{},
	}
}

func Migrate(db *gorm.DB) error {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "migrate", time.Since(start))
	}()
	if err := db.AutoMigrate(models()...); err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "success")
	return nil
}

// PendingTables lists model tables that do not exist yet.
func PendingTables(db *gorm.DB) ([]string, error) {
	var pending []string
	for _, m := range models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		if !db.Migrator().HasTable(m) {
			pending = append(pending, stmt.Schema.Table)
		}
	}
	return pending, nil
}
