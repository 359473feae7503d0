package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAuthRecordNotFound  = errors.New("auth record not found")
	ErrUserProfileNotFound = errors.New("user profile not found")
	ErrDuplicateKey        = errors.New("duplicate key")
)

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
