package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"
)

type UserProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	FindByID(ctx context.Context, id string) (*domain.UserProfile, error)
	FindByAuthRecordID(ctx context.Context, authRecordID string) (*domain.UserProfile, error)
	ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.UserProfile], error)
	Update(ctx context.Context, id string, updates map[string]any) error
	DeleteByID(ctx context.Context, id string) error
}

type GormUserProfileRepository struct{ db *gorm.DB }

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &GormUserProfileRepository{db: db}
}

// Create inserts profile for an existing AuthRecord that has no profile yet.
func (r *GormUserProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&domain.AuthRecord{}).Where("id = ?", profile.AuthRecordID).Count(&owners).Error; err != nil {
			return err
		}
		if owners == 0 {
			return ErrAuthRecordNotFound
		}
		var count int64
		if err := tx.Model(&domain.UserProfile{}).Where("auth_record_id = ?", profile.AuthRecordID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateKey
		}
		return tx.Create(profile).Error
	})
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(ctx, "user_profile", "create", "success")
		return nil
	case errors.Is(err, ErrAuthRecordNotFound):
		observability.RecordRepositoryOperation(ctx, "user_profile", "create", "owner_not_found")
		return err
	case errors.Is(err, ErrDuplicateKey) || isDuplicateKey(err):
		observability.RecordRepositoryOperation(ctx, "user_profile", "create", "duplicate")
		return ErrDuplicateKey
	default:
		observability.RecordRepositoryOperation(ctx, "user_profile", "create", "error")
		return err
	}
}

func (r *GormUserProfileRepository) FindByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	return r.findOne(ctx, "find_by_id", "id = ?", id)
}

func (r *GormUserProfileRepository) FindByAuthRecordID(ctx context.Context, authRecordID string) (*domain.UserProfile, error) {
	return r.findOne(ctx, "find_by_auth_record_id", "auth_record_id = ?", authRecordID)
}

func (r *GormUserProfileRepository) findOne(ctx context.Context, op, query string, arg any) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.db.WithContext(ctx).Where(query, arg).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "user_profile", op, "not_found")
			return nil, ErrUserProfileNotFound
		}
		observability.RecordRepositoryOperation(ctx, "user_profile", op, "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user_profile", op, "success")
	return &profile, nil
}

func (r *GormUserProfileRepository) ListPaged(ctx context.Context, req PageRequest) (PageResult[domain.UserProfile], error) {
	req = req.Normalized()
	base := r.db.WithContext(ctx).Model(&domain.UserProfile{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user_profile", "list_paged", "error")
		return PageResult[domain.UserProfile]{}, err
	}
	var items []domain.UserProfile
	if err := base.Order("created_at asc, id asc").Offset(req.Offset()).Limit(req.PageSize).Find(&items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user_profile", "list_paged", "error")
		return PageResult[domain.UserProfile]{}, err
	}
	observability.RecordRepositoryOperation(ctx, "user_profile", "list_paged", "success")
	return newPageResult(req, items, total), nil
}

func (r *GormUserProfileRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.UserProfile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_profile", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user_profile", "update", "not_found")
		return ErrUserProfileNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user_profile", "update", "success")
	return nil
}

func (r *GormUserProfileRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.UserProfile{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user_profile", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user_profile", "delete_by_id", "not_found")
		return ErrUserProfileNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user_profile", "delete_by_id", "success")
	return nil
}
