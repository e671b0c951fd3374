package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a new project managed by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		ManagerID:   userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects the user manages or belongs to
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projectService.ListProjectsForUser(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	items := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:   items,
		Pagination: dto.NewPaginationResponse(params, total),
	})
}

// GetProject returns project details with its members
// Access is checked by RequireProjectAccess
func (h *ProjectHandler) GetProject(c *gin.Context) {
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	project, err := h.projectService.GetProject(current.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// UpdateProject applies a partial update to the project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateProjectInput
	if name, ok := rawReq["name"].(string); ok {
		input.Name = &name
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if value, ok := rawReq["deadline"]; ok {
		// deadline was provided (might be null)
		if value == nil {
			input.ClearDeadline = true
		} else if deadlineStr, ok := value.(string); ok {
			deadline, err := time.Parse(time.RFC3339, deadlineStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid deadline format, expected RFC3339")
				return
			}
			input.Deadline = &deadline
		}
	}

	project, err := h.projectService.UpdateProject(current.ID, userID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes the project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(current.ID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListMembers returns the members of the project
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	members, err := h.projectService.ListMembers(current.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	result := make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		result[i] = dto.ToProjectMemberDTO(member)
	}
	c.JSON(http.StatusOK, gin.H{"members": result})
}

// AddMember adds a user to the project
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(current.ID, userID, req.UserID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// RemoveMember removes a member from the project
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	current, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(current.ID, userID, targetID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotProjectManager):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrProjectMemberNotFound),
		errors.Is(err, services.ErrMemberUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProjectMember):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
