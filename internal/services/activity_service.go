package services

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
)

// RequestDescriptor is the part of an inbound request the auditor looks at.
// Path is relative to the API mount point, e.g. "/projects/42".
type RequestDescriptor struct {
	Method    string
	Path      string
	IP        string
	UserAgent string
}

var pastTense = map[models.ActivityAction]string{
	models.ActionCreate: "created",
	models.ActionUpdate: "updated",
	models.ActionDelete: "deleted",
	models.ActionView:   "viewed",
}

// ActivityAuditor turns authenticated requests into activity log rows.
type ActivityAuditor struct {
	activityRepo repository.ActivityLogRepository
	logger       *zap.Logger
}

// NewActivityAuditor creates a new ActivityAuditor.
func NewActivityAuditor(activityRepo repository.ActivityLogRepository, logger *zap.Logger) *ActivityAuditor {
	return &ActivityAuditor{
		activityRepo: activityRepo,
		logger:       logging.OrNop(logger),
	}
}

// Record derives and persists the audit entry for one request.
func (a *ActivityAuditor) Record(actor models.User, req RequestDescriptor) (*models.ActivityLog, error) {
	entry := BuildActivityLog(actor, req)
	if err := a.activityRepo.Create(&entry); err != nil {
		metrics.ActivityLogWrites.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	metrics.ActivityLogWrites.WithLabelValues("success").Inc()
	return &entry, nil
}

// ListActivityLogsInput represents filters for listing activity logs
type ListActivityLogsInput struct {
	Viewer models.User
	Action *models.ActivityAction
	Page   utils.PaginationParams
}

// ListActivityLogs lists entries visible to the viewer. Admins see every
// user's entries, everyone else only their own.
func (a *ActivityAuditor) ListActivityLogs(input ListActivityLogsInput) ([]models.ActivityLog, int64, error) {
	filter := repository.ActivityLogFilter{
		Action: input.Action,
		Page:   input.Page,
	}
	if !input.Viewer.IsAdmin() {
		viewerID := input.Viewer.ID
		filter.UserID = &viewerID
	}

	entries, total, err := a.activityRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return entries, total, nil
}

// BuildActivityLog applies the derivation rules without touching storage.
func BuildActivityLog(actor models.User, req RequestDescriptor) models.ActivityLog {
	action := ActionForMethod(req.Method)
	model, modelID := ResourceFromPath(req.Path)

	return models.ActivityLog{
		UserID:      actor.ID,
		UserRole:    actor.RoleOrDefault(),
		Action:      action,
		Model:       model,
		ModelID:     modelID,
		Description: DescribeActivity(actor.Name, action, model),
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		Event:       req.Method + " " + req.Path,
	}
}

// ActionForMethod maps an HTTP method to the audited action; unknown methods are views.
func ActionForMethod(method string) models.ActivityAction {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return models.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.ActionUpdate
	case http.MethodDelete:
		return models.ActionDelete
	default:
		return models.ActionView
	}
}

// ResourceFromPath reads the resource type from path segment 1 and the id
// from segment 2. The type loses one trailing "s" and gets an upper-case
// first letter; the id is only kept when it is all digits.
func ResourceFromPath(path string) (*string, *uint64) {
	segments := strings.Split(path, "/")

	var model *string
	if len(segments) > 1 && segments[1] != "" {
		name := upperFirst(strings.TrimSuffix(segments[1], "s"))
		if name != "" {
			model = &name
		}
	}

	var modelID *uint64
	if len(segments) > 2 && isDigits(segments[2]) {
		if id, err := strconv.ParseUint(segments[2], 10, 64); err == nil {
			modelID = &id
		}
	}

	return model, modelID
}

// DescribeActivity renders the human-readable summary of an audit entry.
func DescribeActivity(actorName string, action models.ActivityAction, model *string) string {
	if model != nil {
		return fmt.Sprintf("%s %s a %s", actorName, pastTense[action], *model)
	}
	return fmt.Sprintf("%s performed %s action", actorName, action)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
