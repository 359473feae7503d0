package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"
)

type AuthRecordRepository interface {
	// CreateWithProfile inserts the record and its linked profile in one transaction.
	// It fails with ErrDuplicateKey when the email is taken and leaves no rows behind.
	CreateWithProfile(ctx context.Context, rec *domain.AuthRecord, profile *domain.UserProfile) error
	FindByID(ctx context.Context, id string) (*domain.AuthRecord, error)
	FindByEmail(ctx context.Context, email string) (*domain.AuthRecord, error)
	IncrementLoginAttempts(ctx context.Context, id string) error
	RecordSuccessfulLogin(ctx context.Context, id, refreshToken string) error
	// UpdatePasswordHash rewrites the credential hash and the profile mirror together.
	UpdatePasswordHash(ctx context.Context, id, hash string, clearRefreshToken bool) error
	MarkEmailVerified(ctx context.Context, id string) error
}

type GormAuthRecordRepository struct{ db *gorm.DB }

func NewAuthRecordRepository(db *gorm.DB) AuthRecordRepository {
	return &GormAuthRecordRepository{db: db}
}

func (r *GormAuthRecordRepository) CreateWithProfile(ctx context.Context, rec *domain.AuthRecord, profile *domain.UserProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.AuthRecord{}).Where("email = ?", rec.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateKey
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		profile.AuthRecordID = rec.ID
		profile.Email = rec.Email
		profile.PasswordHash = rec.PasswordHash
		return tx.Create(profile).Error
	})
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(ctx, "auth_record", "create_with_profile", "success")
		return nil
	case errors.Is(err, ErrDuplicateKey) || isDuplicateKey(err):
		observability.RecordRepositoryOperation(ctx, "auth_record", "create_with_profile", "duplicate")
		return ErrDuplicateKey
	default:
		observability.RecordRepositoryOperation(ctx, "auth_record", "create_with_profile", "error")
		return err
	}
}

func (r *GormAuthRecordRepository) FindByID(ctx context.Context, id string) (*domain.AuthRecord, error) {
	return r.findOne(ctx, "find_by_id", "id = ?", id)
}

func (r *GormAuthRecordRepository) FindByEmail(ctx context.Context, email string) (*domain.AuthRecord, error) {
	return r.findOne(ctx, "find_by_email", "email = ?", email)
}

func (r *GormAuthRecordRepository) findOne(ctx context.Context, op, query string, arg any) (*domain.AuthRecord, error) {
	var rec domain.AuthRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "auth_record", op, "not_found")
			return nil, ErrAuthRecordNotFound
		}
		observability.RecordRepositoryOperation(ctx, "auth_record", op, "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "auth_record", op, "success")
	return &rec, nil
}

// IncrementLoginAttempts bumps the counter in SQL so concurrent failures are not lost.
func (r *GormAuthRecordRepository) IncrementLoginAttempts(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.AuthRecord{}).Where("id = ?", id).
		UpdateColumn("login_attempts", gorm.Expr("login_attempts + ?", 1))
	return r.finishUpdate(ctx, "increment_login_attempts", res)
}

func (r *GormAuthRecordRepository) RecordSuccessfulLogin(ctx context.Context, id, refreshToken string) error {
	res := r.db.WithContext(ctx).Model(&domain.AuthRecord{}).Where("id = ?", id).
		Updates(map[string]any{"login_attempts": 0, "refresh_token": refreshToken})
	return r.finishUpdate(ctx, "record_successful_login", res)
}

func (r *GormAuthRecordRepository) UpdatePasswordHash(ctx context.Context, id, hash string, clearRefreshToken bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"password_hash": hash}
		if clearRefreshToken {
			updates["refresh_token"] = nil
		}
		res := tx.Model(&domain.AuthRecord{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAuthRecordNotFound
		}
		return tx.Model(&domain.UserProfile{}).Where("auth_record_id = ?", id).
			Update("password_hash", hash).Error
	})
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(ctx, "auth_record", "update_password_hash", "success")
		return nil
	case errors.Is(err, ErrAuthRecordNotFound):
		observability.RecordRepositoryOperation(ctx, "auth_record", "update_password_hash", "not_found")
		return err
	default:
		observability.RecordRepositoryOperation(ctx, "auth_record", "update_password_hash", "error")
		return err
	}
}

func (r *GormAuthRecordRepository) MarkEmailVerified(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.AuthRecord{}).Where("id = ?", id).
		Update("is_email_verified", true)
	return r.finishUpdate(ctx, "mark_email_verified", res)
}

func (r *GormAuthRecordRepository) finishUpdate(ctx context.Context, op string, res *gorm.DB) error {
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "auth_record", op, "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "auth_record", op, "not_found")
		return ErrAuthRecordNotFound
	}
	observability.RecordRepositoryOperation(ctx, "auth_record", op, "success")
	return nil
}
