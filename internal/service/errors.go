package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/firstrankcoders/credential-service/internal/repository"
)

var (
	ErrDuplicateCredential = errors.New("duplicate credential")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRecordNotFound      = errors.New("record not found")
	ErrStoreFailure        = errors.New("store failure")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed input validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// storeError maps repository errors onto the service taxonomy.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateKey):
		return ErrDuplicateCredential
	case errors.Is(err, repository.ErrAuthRecordNotFound), errors.Is(err, repository.ErrUserProfileNotFound):
		return ErrRecordNotFound
	default:
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
}
