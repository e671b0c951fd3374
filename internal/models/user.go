package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// DefaultUserRole is recorded for actors without an explicit role.
const DefaultUserRole = RoleEmployee

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         *string        `gorm:"type:varchar(50)" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTasks    []Task           `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments     []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	Memberships     []ProjectMember  `gorm:"foreignKey:UserID" json:"-"`
	ManagedProjects []Project        `gorm:"foreignKey:ManagerID" json:"-"`
}

// RoleOrDefault returns the user's role, or DefaultUserRole when none is set.
func (u User) RoleOrDefault() string {
	if u.Role == nil || *u.Role == "" {
		return DefaultUserRole
	}
	return *u.Role
}

func (u User) IsAdmin() bool {
	return u.RoleOrDefault() == RoleAdmin
}
