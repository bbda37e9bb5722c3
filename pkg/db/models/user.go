package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// User represents the canonical identity entity. Clerk-synced accounts carry
// a ClerkID and no password hash.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash *string        `gorm:"column:password_hash"`
	FirstName    string         `gorm:"column:first_name;not null;default:''"`
	LastName     string         `gorm:"column:last_name;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'client'"`
	ClerkID      *string        `gorm:"column:clerk_id;uniqueIndex"`
	AvatarURL    *string        `gorm:"column:avatar_url"`
	Address      *string        `gorm:"column:address"`
	Bio          *string        `gorm:"column:bio"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
