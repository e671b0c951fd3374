package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

func deadlineReminder(userID uint64, description string, remindAt time.Time) *models.Reminder {
	return &models.Reminder{
		UserID:      userID,
		Type:        models.ReminderDeadline,
		Related:     models.SubjectRef{Kind: models.ResourceProject, ID: 7},
		Title:       "Project Deadline Approaching",
		Description: description,
		RemindAt:    remindAt,
	}
}

func TestReminderRepository_CreateIfAbsent(t *testing.T) {
	db := openTestDB(t)
	repo := NewReminderRepository(db)
	alice := seedUser(t, db, "alice")
	remindAt := baseTime.Add(48 * time.Hour)

	created, err := repo.CreateIfAbsent(deadlineReminder(alice.ID, "in 3 day(s)", remindAt))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(deadlineReminder(alice.ID, "in 3 day(s)", remindAt))
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.CreateIfAbsent(deadlineReminder(alice.ID, "in 3 day(s)", remindAt.Add(time.Hour)))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(deadlineReminder(alice.ID, "in 1 day(s)", remindAt))
	require.NoError(t, err)
	assert.True(t, created)
}

func TestReminderRepository_PendingAndRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewReminderRepository(db)
	alice := seedUser(t, db, "alice")

	due := deadlineReminder(alice.ID, "due", baseTime.Add(-time.Hour))
	later := deadlineReminder(alice.ID, "later", baseTime.Add(time.Hour))
	for _, r := range []*models.Reminder{later, due} {
		_, err := repo.CreateIfAbsent(r)
		require.NoError(t, err)
	}

	pending, err := repo.CountPending(alice.ID, baseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	reminders, total, err := repo.ListByUser(alice.ID, utils.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reminders, 2)
	assert.Equal(t, "due", reminders[0].Description)

	require.NoError(t, repo.MarkRead(due.ID, alice.ID))
	pending, err = repo.CountPending(alice.ID, baseTime)
	require.NoError(t, err)
	assert.Zero(t, pending)

	assert.Error(t, repo.MarkRead(due.ID, alice.ID+1))
}

func TestReminderRepository_LookupErrorIsReturned(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewReminderRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `reminders`").
		WillReturnError(errors.New("too many connections"))

	created, err := repo.CreateIfAbsent(deadlineReminder(1, "m", baseTime))
	require.Error(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
