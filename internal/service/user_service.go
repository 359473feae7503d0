package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/repository"
)

type UserService struct {
	profiles repository.UserProfileRepository
	cache    UserProfileCacheStore
	cacheTTL time.Duration
	logger   *slog.Logger
}

type CreateUserInput struct {
	AuthRecordID   string      `json:"authRecordId" validate:"required,max=36"`
	Name           string      `json:"name" validate:"max=255"`
	Email          string      `json:"email" validate:"omitempty,email,max=255"`
	Role           domain.Role `json:"role" validate:"omitempty,oneof=STUDENT TEACHER ADMIN"`
	OrganizationID *string     `json:"organizationId" validate:"omitempty,uuid"`
	DepartmentID   *string     `json:"departmentId" validate:"omitempty,uuid"`
	ClassID        *string     `json:"classId" validate:"omitempty,uuid"`
}

// UpdateUserInput applies only the non-nil fields.
type UpdateUserInput struct {
	Name           *string      `json:"name" validate:"omitempty,max=255"`
	Role           *domain.Role `json:"role" validate:"omitempty,oneof=STUDENT TEACHER ADMIN"`
	OrganizationID *string      `json:"organizationId" validate:"omitempty,uuid"`
	DepartmentID   *string      `json:"departmentId" validate:"omitempty,uuid"`
	ClassID        *string      `json:"classId" validate:"omitempty,uuid"`
}

func NewUserService(profiles repository.UserProfileRepository, cache UserProfileCacheStore, cacheTTL time.Duration, logger *slog.Logger) *UserService {
	if cache == nil {
		cache = NewNoopUserProfileCacheStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{profiles: profiles, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (profile *domain.UserProfile, err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "create", operationOutcome(err), time.Since(start)) }()

	if err = validateInput(in); err != nil {
		return nil, err
	}
	profile = &domain.UserProfile{
		AuthRecordID:   in.AuthRecordID,
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		Role:           in.Role,
		OrganizationID: optionalRef(in.OrganizationID),
		DepartmentID:   optionalRef(in.DepartmentID),
		ClassID:        optionalRef(in.ClassID),
	}
	if err = s.profiles.Create(ctx, profile); err != nil {
		return nil, storeError(err)
	}
	s.invalidateList(ctx)
	return profile, nil
}

func (s *UserService) List(ctx context.Context, req repository.PageRequest) (result repository.PageResult[domain.UserProfile], err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "list", operationOutcome(err), time.Since(start)) }()

	key := fmt.Sprintf("page=%d&page_size=%d", req.Page, req.PageSize)
	if s.readCache(ctx, profileListCacheNamespace, key, &result) {
		return result, nil
	}
	result, err = s.profiles.ListPaged(ctx, req)
	if err != nil {
		return repository.PageResult[domain.UserProfile]{}, storeError(err)
	}
	s.writeCache(ctx, profileListCacheNamespace, key, result)
	return result, nil
}

func (s *UserService) Get(ctx context.Context, id string) (profile *domain.UserProfile, err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "get", operationOutcome(err), time.Since(start)) }()

	var cached domain.UserProfile
	if s.readCache(ctx, profileCacheNamespace, id, &cached) {
		return &cached, nil
	}
	profile, err = s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	s.writeCache(ctx, profileCacheNamespace, id, profile)
	return profile, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (profile *domain.UserProfile, err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "update", operationOutcome(err), time.Since(start)) }()

	if err = validateInput(in); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.OrganizationID != nil {
		updates["organization_id"] = refColumnValue(*in.OrganizationID)
	}
	if in.DepartmentID != nil {
		updates["department_id"] = refColumnValue(*in.DepartmentID)
	}
	if in.ClassID != nil {
		updates["class_id"] = refColumnValue(*in.ClassID)
	}
	if len(updates) > 0 {
		if err = s.profiles.Update(ctx, id, updates); err != nil {
			return nil, storeError(err)
		}
		s.invalidate(ctx, id)
	}
	profile, err = s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return profile, nil
}

// Delete removes the profile only. The owning AuthRecord is left in place.
func (s *UserService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "delete", operationOutcome(err), time.Since(start)) }()

	if err = s.profiles.DeleteByID(ctx, id); err != nil {
		return storeError(err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) Me(ctx context.Context, authRecordID string) (profile *domain.UserProfile, err error) {
	start := time.Now()
	defer func() { observability.RecordUserProfileOperation(ctx, "me", operationOutcome(err), time.Since(start)) }()

	profile, err = s.profiles.FindByAuthRecordID(ctx, authRecordID)
	if err != nil {
		return nil, storeError(err)
	}
	return profile, nil
}

func (s *UserService) readCache(ctx context.Context, namespace, key string, dst any) bool {
	raw, ok, err := s.cache.Get(ctx, namespace, key)
	if err != nil {
		observability.RecordProfileCacheEvent(ctx, "error")
		s.logger.WarnContext(ctx, "profile cache read failed", "namespace", namespace, "error", err)
		return false
	}
	if !ok {
		observability.RecordProfileCacheEvent(ctx, "miss")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		observability.RecordProfileCacheEvent(ctx, "error")
		return false
	}
	observability.RecordProfileCacheEvent(ctx, "hit")
	return true
}

func (s *UserService) writeCache(ctx context.Context, namespace, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, namespace, key, raw, s.cacheTTL); err != nil {
		observability.RecordProfileCacheEvent(ctx, "error")
		s.logger.WarnContext(ctx, "profile cache write failed", "namespace", namespace, "error", err)
	}
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, profileCacheNamespace, id); err != nil {
		s.logger.WarnContext(ctx, "profile cache invalidation failed", "profile_id", id, "error", err)
	}
	s.invalidateList(ctx)
}

func (s *UserService) invalidateList(ctx context.Context) {
	if err := s.cache.InvalidateNamespace(ctx, profileListCacheNamespace); err != nil {
		s.logger.WarnContext(ctx, "profile list cache invalidation failed", "error", err)
	}
}

func operationOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// optionalRef treats an empty reference id as absent.
func optionalRef(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	return id
}

// refColumnValue stores an empty reference id as NULL so it can be cleared.
func refColumnValue(id string) any {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return id
}
