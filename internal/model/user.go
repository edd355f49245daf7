package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names assignable to an account. Staff submit reports, Supervisor and
// Manager review them, Owner has manager-level rights everywhere.
const (
	RoleStaff      = "Staff"
	RoleSupervisor = "Supervisor"
	RoleManager    = "Manager"
	RoleOwner      = "Owner"
)

// User represents the central user entity for logic and database structure.
// New sign-ups start with IsApproved=false and cannot log in until a reviewer
// approves the account.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Fullname   string         `gorm:"type:varchar(255);not null" json:"fullname"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role       string         `gorm:"type:varchar(50);not null;default:'Staff'" json:"role"`
	IsApproved bool           `gorm:"not null;default:false;index" json:"is_approved"`
	ApprovedBy *uuid.UUID     `gorm:"type:uuid" json:"approved_by"`
	AvatarURL  *string        `gorm:"type:text" json:"avatar_url"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// ValidRole reports whether the given role name is one of the assignable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStaff, RoleSupervisor, RoleManager, RoleOwner:
		return true
	}
	return false
}

// ReviewerRole reports whether the role may review reports and approve accounts.
func ReviewerRole(role string) bool {
	switch role {
	case RoleSupervisor, RoleManager, RoleOwner:
		return true
	}
	return false
}
