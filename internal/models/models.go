package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"   json:"is_admin"`
	CreatedAt    time.Time `gorm:"not null"                 json:"created_at"`
}

// RevokedToken rows are never updated. ExpiresAt is the natural expiry of the
// revoked token; past it the row can no longer match a valid token and is pruned.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	JTI       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"jti"`
	RevokedAt time.Time `gorm:"not null"                           json:"revoked_at"`
	ExpiresAt time.Time `gorm:"index;not null"                     json:"expires_at"`
}
