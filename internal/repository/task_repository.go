package repository

import (
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

var taskRelations = []string{"Creator", "Project", "Assignments"}

func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(taskRelations...).Create(task).Error
}

func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.Preloads(preload...)).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns one page of a project's tasks and the total matching the
// filter. Undated tasks sort last when ordering by due date.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).
		Where("tasks.project_id = ?", filter.ProjectID).
		Scopes(taskStatus(filter.Status), assignedTo(r.db, filter.AssignedUserID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "tasks.created_at DESC"
	if filter.SortByDueDate {
		order = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC"
	}

	var tasks []models.Task
	err := query.Order(order).
		Scopes(database.Preloads("Creator", "Assignments"), database.Paginate(filter.Page)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func taskStatus(status *models.TaskStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("tasks.status = ?", *status)
	}
}

func assignedTo(base *gorm.DB, userID *uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == nil {
			return db
		}
		assigned := base.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id AND task_assignments.user_id = ?", *userID).
			Where("task_assignments.deleted_at IS NULL")
		return db.Where("EXISTS (?)", assigned)
	}
}

func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(taskRelations...).Save(task).Error
}

// Delete soft deletes the task together with its assignments.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// AssignUsers upserts assignments. A previously removed assignment is
// restored with a fresh assigned_at.
func (r *GormTaskRepository) AssignUsers(taskID uint64, userIDs []uint64) error {
	assignments := make([]models.TaskAssignment, 0, len(userIDs))
	for _, userID := range userIDs {
		assignments = append(assignments, models.TaskAssignment{TaskID: taskID, UserID: userID})
	}

	restore := clause.OnConflict{
		Columns: []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
		DoUpdates: append(
			clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
			clause.AssignmentColumns([]string{"assigned_at"})...,
		),
	}
	return r.db.Clauses(restore).Omit("Task", "User").Create(&assignments).Error
}

func (r *GormTaskRepository) UnassignUsers(taskID uint64, userIDs []uint64) error {
	return r.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Delete(&models.TaskAssignment{}).Error
}

// CountProjectMembers counts how many of the given user IDs belong to the
// project, either as members or as its manager
func (r *GormTaskRepository) CountProjectMembers(userIDs []uint64, projectID uint64) (int64, error) {
	member := r.db.Model(&models.ProjectMember{}).
		Select("1").
		Where("project_members.user_id = users.id AND project_members.project_id = ?", projectID)
	manager := r.db.Model(&models.Project{}).
		Select("1").
		Where("projects.manager_id = users.id AND projects.id = ?", projectID)

	var count int64
	err := r.db.Model(&models.User{}).
		Where("users.id IN ?", userIDs).
		Where("EXISTS (?) OR EXISTS (?)", member, manager).
		Count(&count).Error
	return count, err
}
