package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrInvalidProjectName     = errors.New("project name cannot be empty")
	ErrNotProjectManager      = errors.New("only the project manager can perform this action")
	ErrAlreadyProjectMember   = errors.New("user is already a member of this project")
	ErrCannotRemoveYourself   = errors.New("cannot remove yourself from the project")
	ErrProjectMemberNotFound  = errors.New("project member not found")
	ErrMemberUserNotFound     = errors.New("user to add does not exist")
	ErrProjectAccessForbidden = errors.New("user is not a member of the project")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notifier    *NotificationService
	now         func() time.Time
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService. Notification failures are
// logged to logger and do not fail the operation that produced them.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifier *NotificationService, now func() time.Time, logger *zap.Logger) *ProjectService {
	if now == nil {
		now = time.Now
	}
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         now,
		logger:      logging.OrNop(logger),
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Deadline    *time.Time
	ManagerID   uint64
}

// UpdateProjectInput represents a partial project update.
type UpdateProjectInput struct {
	Name          *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
}

// CreateProject creates a new project managed by the creator.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	managerID := input.ManagerID
	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Deadline:    input.Deadline,
		ManagerID:   &managerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.notify(managerID, models.NotificationProjectCreated, project,
		"Project Created",
		fmt.Sprintf("You created project '%s'", project.Name),
	)

	return project, nil
}

// ListProjectsForUser returns projects the user manages or belongs to.
func (s *ProjectService) ListProjectsForUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListForUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its manager and members.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Manager", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListMembers returns the project's members in join order.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AuthorizeAccess loads the project and checks that the user manages it or
// is a member of it.
func (s *ProjectService) AuthorizeAccess(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if isManager(project, userID) {
		return project, nil
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectAccessForbidden
		}
		return nil, fmt.Errorf("failed to verify project membership: %w", err)
	}

	return project, nil
}

// UpdateProject applies a partial update. Only the manager may update.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findManagedProject(projectID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ClearDeadline {
		project.Deadline = nil
	} else if input.Deadline != nil {
		project.Deadline = input.Deadline
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project. Only the manager may delete.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	if _, err := s.findManagedProject(projectID, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMember adds a user to the project and notifies them.
func (s *ProjectService) AddMember(projectID, actorID, userID uint64) (*models.ProjectMember, error) {
	project, err := s.findManagedProject(projectID, actorID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  s.now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}
	member.User = *user

	s.notify(userID, models.NotificationProjectAssigned, project,
		"Project Assigned",
		fmt.Sprintf("You have been added to project '%s'", project.Name),
	)

	return member, nil
}

// RemoveMember removes a member from the project.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.findManagedProject(projectID, actorID); err != nil {
		return err
	}

	if _, err := s.projectRepo.FindMember(projectID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (s *ProjectService) findManagedProject(projectID, actorID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !isManager(project, actorID) {
		return nil, ErrNotProjectManager
	}
	return project, nil
}

// notify records a notification about project. The project change it
// reports is already committed, so a failure is logged instead of returned.
func (s *ProjectService) notify(userID uint64, notificationType models.NotificationType, project *models.Project, title, message string) {
	if _, err := s.notifier.Notify(userID, notificationType, project.Subject(), title, message); err != nil {
		s.logger.Error("Failed to create project notification",
			zap.Error(err),
			zap.Uint64("project_id", project.ID),
			zap.Uint64("user_id", userID),
			zap.String("type", string(notificationType)),
		)
	}
}

func isManager(project *models.Project, userID uint64) bool {
	return project.ManagerID != nil && *project.ManagerID == userID
}
