package models

import (
	"time"

	"gorm.io/gorm"
)

// Role controls which routes a user may hit and which quiz projection they see.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Username  string         `json:"username" gorm:"unique;not null"`
	Email     string         `json:"email" gorm:"unique;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      Role           `json:"role" gorm:"type:varchar(16);default:'student'"`
}

// CanAuthor reports whether the user may create or modify course content.
func (u *User) CanAuthor() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}
