package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"

	"gorm.io/gorm"
)

type SeedReport struct {
	CreatedAuthRecords  int  `json:"created_auth_records"`
	CreatedUserProfiles int  `json:"created_user_profiles"`
	Noop                bool `json:"noop"`
}

// SeedDevAccount makes sure a verified account and its profile exist for email.
// passwordHash must already be hashed. An empty email is a no-op.
func SeedDevAccount(db *gorm.DB, email, passwordHash string) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "seed", time.Since(start))
	}()

	report := &SeedReport{}
	email = strings.TrimSpace(email)
	if email == "" {
		report.Noop = true
		return report, nil
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("seed password hash is required")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		rec := domain.AuthRecord{Email: email, PasswordHash: passwordHash, IsEmailVerified: true}
		res := tx.Where("email = ?", email).FirstOrCreate(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedAuthRecords++
		}

		profile := domain.UserProfile{
			AuthRecordID: rec.ID,
			Email:        rec.Email,
			Name:         "Dev Account",
			PasswordHash: rec.PasswordHash,
			Role:         domain.RoleAdmin,
		}
		res = tx.Where("auth_record_id = ?", rec.ID).FirstOrCreate(&profile)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedUserProfiles++
		}
		return nil
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
		return nil, err
	}

	report.Noop = report.CreatedAuthRecords == 0 && report.CreatedUserProfiles == 0
	observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
	return report, nil
}

// MarkEmailVerified flips the verification flag for an exact email match.
func MarkEmailVerified(db *gorm.DB, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	tx := db.Model(&domain.AuthRecord{}).Where("email = ?", email).Update("is_email_verified", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
