package models

import "fmt"

// ResourceKind names the entity types a notification or reminder can point at.
type ResourceKind string

const (
	ResourceProject      ResourceKind = "Project"
	ResourceTask         ResourceKind = "Task"
	ResourceUser         ResourceKind = "User"
	ResourceNotification ResourceKind = "Notification"
	ResourceReminder     ResourceKind = "Reminder"
)

// Valid reports whether k is one of the known resource kinds.
func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceProject, ResourceTask, ResourceUser, ResourceNotification, ResourceReminder:
		return true
	}
	return false
}

// SubjectRef is a typed reference to another entity, stored as
// related_type/related_id when embedded with the "related_" prefix.
type SubjectRef struct {
	Kind ResourceKind `gorm:"column:type;type:varchar(50);not null" json:"type"`
	ID   uint64       `gorm:"column:id;not null" json:"id"`
}

// Validate rejects unknown kinds and missing ids before a write.
func (r SubjectRef) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown resource kind %q", r.Kind)
	}
	if r.ID == 0 {
		return fmt.Errorf("%s reference has no id", r.Kind)
	}
	return nil
}

func (r SubjectRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}
