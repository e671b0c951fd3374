package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// RequireTaskAccess loads the task named by :id and checks that the user
// manages or belongs to its project. Outsiders get 404, not 403.
func RequireTaskAccess(taskService *services.TaskService, projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "Invalid task ID"))
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, ""))
			return
		}

		task, err := taskService.GetTask(taskID)
		if err == nil {
			_, err = projectService.AuthorizeAccess(task.ProjectID, userID)
		}
		if err != nil {
			abortAccessError(c, err, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// abortAccessError hides whether the resource exists from users who may
// not see it.
func abortAccessError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrProjectAccessForbidden):
		apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeNotFound, notFoundMessage))
	default:
		apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeInternalError, ""))
	}
}

// GetTask retrieves the task stored by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
