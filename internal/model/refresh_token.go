package model

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken is a persisted session record. The token column stores the
// signed refresh JWT verbatim; validity requires expires_at > now plus a
// successful signature check against the refresh secret.
type RefreshToken struct {
	gorm.Model
	Token     string    `gorm:"column:token;unique;not null"`
	UserID    uint      `gorm:"column:user_id;not null;index:idx_refresh_tokens_user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:idx_refresh_tokens_expires_at"`
}
