package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubChecker struct {
	result services.ScanResult
	err    error
	calls  int
}

func (s *stubChecker) CheckProjectDeadlines(ctx context.Context) (services.ScanResult, error) {
	s.calls++
	return s.result, s.err
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New("not a cron expression", time.UTC, &stubChecker{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid deadline scan schedule")
}

func TestNew_SchedulesDailyAtNine(t *testing.T) {
	s, err := New("0 9 * * *", time.UTC, &stubChecker{}, nil)
	require.NoError(t, err)

	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), entries[0].Schedule.Next(from))
}

func TestRunDeadlineScan_LogsResult(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	checker := &stubChecker{result: services.ScanResult{ProjectsNotified: 2, NotificationsCreated: 3, RemindersCreated: 3}}

	s, err := New("0 9 * * *", time.UTC, checker, zap.New(core))
	require.NoError(t, err)

	s.runDeadlineScan(checker)

	assert.Equal(t, 1, checker.calls)
	entries := logs.FilterMessage("Scheduled deadline scan finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["projects_notified"])
}

func TestRunDeadlineScan_LeavesFailureToChecker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	checker := &stubChecker{err: errors.New("database is gone")}

	s, err := New("0 9 * * *", time.UTC, checker, zap.New(core))
	require.NoError(t, err)

	s.runDeadlineScan(checker)

	assert.Equal(t, 1, checker.calls)
	assert.Zero(t, logs.FilterMessage("Scheduled deadline scan finished").Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	s, err := New("0 9 * * *", time.UTC, &stubChecker{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
