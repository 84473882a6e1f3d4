package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name             string     `gorm:"column:name;not null"`
	Email            string     `gorm:"column:email;unique;not null"`
	Phone            *string    `gorm:"column:phone;unique;default:null"`
	Password         string     `gorm:"column:password;not null"`
	Role             string     `gorm:"column:role;not null;default:CUSTOMER"`
	ResetToken       *string    `gorm:"column:reset_token;default:null;index:idx_users_reset_token,where:reset_token IS NOT NULL"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry;default:null"`
	LastLogin        time.Time  `gorm:"column:last_login"`
}
