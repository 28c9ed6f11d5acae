package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleRegular UserRole = "regular"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

type User struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"not null"`
	// Partial index: uniqueness among live rows only, a soft-deleted
	// user's address stays reusable.
	Email       string     `json:"email" gorm:"uniqueIndex:uniq_users_email,where:deleted_at IS NULL;not null"`
	Password    string     `json:"-" gorm:"not null"`
	Role        UserRole   `json:"role" gorm:"default:'regular'"`
	Status      UserStatus `json:"status" gorm:"default:'active'"`
	ProfilePath *string    `json:"profile_path"`
	DOB         *time.Time `json:"dob"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`

	LockFlag            bool       `json:"lock_flag" gorm:"default:false"`
	LockCount           int        `json:"lock_count" gorm:"default:0"`
	LastLockAt          *time.Time `json:"last_lock_at"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLoginAt   *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`

	CreateUserID  *uint          `json:"create_user_id"`
	UpdatedUserID *uint          `json:"updated_user_id"`
	DeletedUserID *uint          `json:"deleted_user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
