package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Deadline    *time.Time     `gorm:"index" json:"deadline"`
	ManagerID   *uint64        `gorm:"index" json:"manager_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager *User           `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// Subject returns the reference other records use to point at this project.
func (p Project) Subject() SubjectRef {
	return SubjectRef{Kind: ResourceProject, ID: p.ID}
}
