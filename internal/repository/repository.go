package repository

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// AssignUsers assigns multiple users to a task
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// CountProjectMembers counts how many of the given user IDs belong to the project
	CountProjectMembers(userIDs []uint64, projectID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID      uint64
	Status         *models.TaskStatus
	AssignedUserID *uint64
	SortByDueDate  bool
	Page           utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser lists projects the user manages or is a member of
	ListForUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// FindWithDeadlineBetween returns projects whose deadline falls in
	// [from, to], with Manager and Members.User preloaded
	FindWithDeadlineBetween(from, to time.Time) ([]models.Project, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, ignoring case
	FindByEmail(email string) (*models.User, error)

	// UpdateRole sets the user's role; nil clears it
	UpdateRole(id uint64, role *string) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateIfAbsent inserts the notification unless a row with the same
	// recipient, type, subject, title and message exists. It reports whether
	// a row was written.
	CreateIfAbsent(notification *models.Notification) (bool, error)

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// FindForUser finds a notification owned by the user
	FindForUser(id, userID uint64) (*models.Notification, error)

	// MarkRead marks one notification read
	MarkRead(notification *models.Notification, at time.Time) error

	// MarkAllRead marks every unread notification of the user read
	MarkAllRead(userID uint64, at time.Time) (int64, error)

	// Delete deletes a notification owned by the user
	Delete(id, userID uint64) error
}

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	// CreateIfAbsent inserts the reminder unless a row with the same
	// recipient, type, subject, title, description and remind_at exists
	CreateIfAbsent(reminder *models.Reminder) (bool, error)

	// ListByUser lists a user's reminders ordered by remind_at
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error)

	// CountPending counts unread reminders that are due at or before now
	CountPending(userID uint64, now time.Time) (int64, error)

	// MarkRead marks a reminder owned by the user read
	MarkRead(id, userID uint64) error
}

// ActivityLogRepository defines the interface for activity log data access
type ActivityLogRepository interface {
	// Create persists an audit entry
	Create(entry *models.ActivityLog) error

	// List retrieves entries with filtering and pagination, newest first
	List(filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

// ActivityLogFilter holds filtering options for listing activity logs
type ActivityLogFilter struct {
	UserID *uint64
	Action *models.ActivityAction
	Page   utils.PaginationParams
}

// ScreenSessionRepository defines the interface for screen-time session data access
type ScreenSessionRepository interface {
	Create(session *models.ScreenSession) error
	FindByID(id string) (*models.ScreenSession, error)
	Update(session *models.ScreenSession) error
}
