package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// UserProfile is the application-facing user linked 1:1 to an AuthRecord.
// PasswordHash mirrors the credential hash and is kept in step by the auth service.
type UserProfile struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	AuthRecordID   string    `gorm:"uniqueIndex;size:36;not null" json:"authRecordId"`
	Name           string    `gorm:"size:255" json:"name"`
	Email          string    `gorm:"size:255;index" json:"email"`
	PasswordHash   string    `gorm:"size:255" json:"-"`
	Role           Role      `gorm:"size:32;not null;default:STUDENT" json:"role"`
	OrganizationID *string   `gorm:"size:36;index" json:"organizationId,omitempty"`
	DepartmentID   *string   `gorm:"size:36" json:"departmentId,omitempty"`
	ClassID        *string   `gorm:"size:36" json:"classId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *UserProfile) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}
