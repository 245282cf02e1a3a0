package models

import (
	"time"
)

// User represents a registered author or reader.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username"`
	Email        string    `gorm:"type:varchar(254);not null;default:'';column:email"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:'';column:first_name"`
	LastName     string    `gorm:"type:varchar(150);not null;default:'';column:last_name"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
