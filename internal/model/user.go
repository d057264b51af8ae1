package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// AdminUsername is the only account that survives a system reset.
const AdminUsername = "admin"

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	ID               string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username         string                      `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Role             UserRole                    `gorm:"size:20;default:'student'" json:"role"`
	CompletedLessons datatypes.JSONSlice[string] `json:"completedLessons"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.Role == "" {
		u.Role = Student
	}
	if u.CompletedLessons == nil {
		u.CompletedLessons = datatypes.JSONSlice[string]{}
	}
	return nil
}
