package constants

import "time"

// Session and context keys
const (
	SessionCookieName       = "pm_session"
	SessionKeyUserID        = "user_id"
	ContextKeyUserID        = "user_id"
	SessionKeyScreenSession = "screen_session_id"
	ContextKeyProject       = "project"
	ContextKeyTask          = "task"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const MinPasswordLength = 8

const MaxAIGeneratedTasks = 20

// Deadline scanning
const (
	DeadlineLookahead     = 7 * 24 * time.Hour
	ReminderLeadTime      = 24 * time.Hour
	DeadlineReminderTitle = "Project Deadline Approaching"
	DeadlineDateLayout    = "Jan 02, 2006"
)

// DeadlineThresholdDays are the only day counts on which deadline alerts fire.
var DeadlineThresholdDays = []int{7, 3, 1}

// APIPrefix is stripped from request paths before they are audited.
const APIPrefix = "/api"

// Screen time heartbeats further apart than this are not counted as active time.
const MaxHeartbeatGap = 2 * time.Minute
