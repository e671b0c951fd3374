package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks of the project loaded by RequireProjectAccess
// Supports status, assigned_to_me and sort=due_date filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	input := services.ListTasksInput{
		ProjectID:     project.ID,
		UserID:        userID,
		SortByDueDate: c.Query("sort") == "due_date",
	}

	if status := c.Query("status"); status != "" {
		taskStatus := models.TaskStatus(status)
		if !taskStatus.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &taskStatus
	}

	if assigned := c.Query("assigned_to_me"); assigned != "" {
		assignedToMe, err := strconv.ParseBool(assigned)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to_me")
			return
		}
		input.AssignedToMe = assignedToMe
	}

	params := utils.GetPaginationParams(c)
	input.Page = params

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task in the project loaded by RequireProjectAccess
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		DueDate     *time.Time        `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		ProjectID:   project.ID,
		CreatorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if title, ok := rawReq["title"].(string); ok {
		input.Title = &title
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if status, ok := rawReq["status"].(string); ok {
		taskStatus := models.TaskStatus(status)
		input.Status = &taskStatus
	}
	if value, ok := rawReq["due_date"]; ok {
		// due_date was provided (might be null)
		if value == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := value.(string); ok {
			dueDate, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date format, expected RFC3339")
				return
			}
			input.DueDate = &dueDate
		}
	}

	updated, err := h.taskService.UpdateTask(task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task. Only the creator may delete it.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

type assignUsersRequest struct {
	UserIDs []uint64 `json:"user_ids" binding:"required"`
}

// AssignTask assigns project members to a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.AssignUsers(services.AssignUsersInput{
		TaskID:  task.ID,
		ActorID: userID,
		UserIDs: req.UserIDs,
	}); err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondWithAssignments(c, task.ID, "Users assigned successfully")
}

// UnassignTask removes user assignments from a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req assignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.UnassignUsers(task.ID, userID, req.UserIDs); err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondWithAssignments(c, task.ID, "Users unassigned successfully")
}

func (h *TaskHandler) respondWithAssignments(c *gin.Context, taskID uint64, message string) {
	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		apierrors.InternalError(c, "Failed to reload task assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"assignments": dto.ToTaskDTO(*task).Assignments,
	})
}

// GenerateTasks drafts task suggestions for the project from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:        req.Text,
		ProjectName: project.Name,
		Deadline:    project.Deadline,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generated,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrNoUserIDsProvided),
		errors.Is(err, services.ErrInvalidTaskAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskChangeForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.Unprocessable(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
