package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// TaskSummaryDTO holds the fields shared by task list items and task details.
type TaskSummaryDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"due_date"`
	CreatorID   uint64            `json:"creator_id"`
	ProjectID   uint64            `json:"project_id"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TaskAssignmentDTO struct {
	User       UserDTO   `json:"user"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskDTO is the full task representation returned by single-task endpoints.
type TaskDTO struct {
	TaskSummaryDTO
	UpdatedAt   time.Time           `json:"updated_at"`
	Project     *ProjectDTO         `json:"project,omitempty"`
	Assignments []TaskAssignmentDTO `json:"assignments,omitempty"`
}

// TaskListItemDTO is a task in list responses. Assignees are ids only.
type TaskListItemDTO struct {
	TaskSummaryDTO
	AssigneeIDs []uint64 `json:"assignee_ids"`
}

type TaskListResponse struct {
	Tasks      []TaskListItemDTO  `json:"tasks"`
	Pagination PaginationResponse `json:"pagination"`
}

func toTaskSummary(task models.Task) TaskSummaryDTO {
	summary := TaskSummaryDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CreatorID:   task.CreatorID,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
	}
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		summary.Creator = &creator
	}
	return summary
}

// ToTaskDTO converts a Task model to TaskDTO. Relations are included only
// when preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		TaskSummaryDTO: toTaskSummary(task),
		UpdatedAt:      task.UpdatedAt,
	}

	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}

	for _, assignment := range task.Assignments {
		dto.Assignments = append(dto.Assignments, TaskAssignmentDTO{
			User:       ToUserDTO(assignment.User),
			AssignedAt: assignment.AssignedAt,
		})
	}
	return dto
}

func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	item := TaskListItemDTO{
		TaskSummaryDTO: toTaskSummary(task),
		AssigneeIDs:    make([]uint64, 0, len(task.Assignments)),
	}
	for _, assignment := range task.Assignments {
		item.AssigneeIDs = append(item.AssigneeIDs, assignment.UserID)
	}
	return item
}

// ToTaskListResponse converts one page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: NewPaginationResponse(params, total),
	}
}
