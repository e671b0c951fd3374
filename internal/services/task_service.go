package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskChangeForbidden    = errors.New("only the task creator or the project manager can perform this action")
	ErrNoUserIDsProvided      = errors.New("at least one user ID is required")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskAssignee    = errors.New("one or more users are not members of the project")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles the tasks of a project.
type TaskService struct {
	taskRepo  repository.TaskRepository
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil, in which
// case GenerateTasks reports ErrAIServiceNotConfigured. A nil now uses time.Now.
func NewTaskService(taskRepo repository.TaskRepository, aiService *AIService, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		taskRepo:  taskRepo,
		aiService: aiService,
		now:       now,
	}
}

type ListTasksInput struct {
	ProjectID     uint64
	UserID        uint64
	AssignedToMe  bool
	Status        *models.TaskStatus
	SortByDueDate bool
	Page          utils.PaginationParams
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	ProjectID   uint64
	CreatorID   uint64
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

type AssignUsersInput struct {
	TaskID  uint64
	ActorID uint64
	UserIDs []uint64
}

// ListTasks returns the tasks of a project matching the filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ProjectID:     input.ProjectID,
		Status:        input.Status,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
	}
	if input.AssignedToMe {
		filter.AssignedUserID = &input.UserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task with its creator, project and assignees
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	return s.findTask(taskID, "Creator", "Project", "Assignments", "Assignments.User")
}

// CreateTask creates a task and assigns it to its creator
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		CreatorID:   input.CreatorID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskRepo.AssignUsers(task.ID, []uint64{input.CreatorID}); err != nil {
		return nil, fmt.Errorf("failed to assign creator to task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask applies a partial update. Any project member may update.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	switch {
	case input.ClearDueDate:
		task.DueDate = nil
	case input.DueDate != nil:
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.GetTask(task.ID)
}

// DeleteTask deletes a task. Only its creator or the project manager may.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	if _, err := s.findChangeableTask(taskID, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignUsers assigns project members (or the manager) to a task
func (s *TaskService) AssignUsers(input AssignUsersInput) error {
	if len(input.UserIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	task, err := s.findChangeableTask(input.TaskID, input.ActorID)
	if err != nil {
		return err
	}

	userIDs := uniqueUint64(input.UserIDs)
	count, err := s.taskRepo.CountProjectMembers(userIDs, task.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidTaskAssignee
	}

	if err := s.taskRepo.AssignUsers(task.ID, userIDs); err != nil {
		return fmt.Errorf("failed to assign users: %w", err)
	}
	return nil
}

// UnassignUsers removes user assignments from a task
func (s *TaskService) UnassignUsers(taskID, actorID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	if _, err := s.findChangeableTask(taskID, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.UnassignUsers(taskID, uniqueUint64(userIDs)); err != nil {
		return fmt.Errorf("failed to unassign users: %w", err)
	}
	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text        string
	ProjectName string
	Deadline    *time.Time
}

// GenerateTasks uses AI to draft tasks from free text. Nothing is persisted;
// due dates more than a day in the past are dropped.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.ProjectName, input.Deadline, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	return filterGeneratedTasks(aiTasks, s.now())
}

func filterGeneratedTasks(aiTasks []GeneratedTask, now time.Time) ([]GeneratedTask, error) {
	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	cutoff := now.Add(-24 * time.Hour)
	valid := make([]GeneratedTask, 0, len(aiTasks))
	for _, task := range aiTasks {
		task.Title = strings.TrimSpace(task.Title)
		if task.Title == "" {
			continue
		}
		if task.DueDate != nil && task.DueDate.Before(cutoff) {
			task.DueDate = nil
		}
		valid = append(valid, task)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// findChangeableTask loads the task and checks that actorID created it or
// manages its project.
func (s *TaskService) findChangeableTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "Project")
	if err != nil {
		return nil, err
	}
	if task.CreatorID != actorID && !isManager(&task.Project, actorID) {
		return nil, ErrTaskChangeForbidden
	}
	return task, nil
}

func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
