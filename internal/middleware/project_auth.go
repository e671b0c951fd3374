package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/constants"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
)

// RequireProjectAccess checks that the user manages or belongs to the project
// named by the :id parameter and stores the project in the context.
func RequireProjectAccess(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "Invalid project ID"))
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Abort(c, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, ""))
			return
		}

		project, err := projectService.AuthorizeAccess(projectID, userID)
		if err != nil {
			abortAccessError(c, err, "Project not found")
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Next()
	}
}

// GetProject retrieves the project stored by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
