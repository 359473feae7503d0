package service

import (
	"context"

	"github.com/firstrankcoders/credential-service/internal/domain"
	"github.com/firstrankcoders/credential-service/internal/repository"
)

//go:generate mockgen -destination=gomock/mock_services.go -package=gomock . AuthServiceInterface,UserServiceInterface,EmailVerificationNotifier,PasswordResetNotifier

type AuthServiceInterface interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*RefreshResult, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	VerifyPassword(ctx context.Context, userID, password string) bool
}

type UserServiceInterface interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.UserProfile, error)
	List(ctx context.Context, req repository.PageRequest) (repository.PageResult[domain.UserProfile], error)
	Get(ctx context.Context, id string) (*domain.UserProfile, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.UserProfile, error)
	Delete(ctx context.Context, id string) error
	Me(ctx context.Context, authRecordID string) (*domain.UserProfile, error)
}
