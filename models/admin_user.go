package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminUser is an account allowed into the admin console.
// PasswordHash is never serialised.
type AdminUser struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string     `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email        string     `json:"email" db:"email" gorm:"type:text;not null"`
	PasswordHash string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Role         string     `json:"role" db:"role" gorm:"type:text;not null;default:admin"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicAdminUser is the redacted view returned by the auth endpoints.
type PublicAdminUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (u AdminUser) Public() PublicAdminUser {
	return PublicAdminUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// ValidRole reports whether role is one the console understands.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
