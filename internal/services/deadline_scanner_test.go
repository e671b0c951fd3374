package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const day = 24 * time.Hour

type DeadlineScannerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	clock   *testClock
	scanner *DeadlineScanner
	manager *models.User
	member  *models.User
}

func (s *DeadlineScannerTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.clock = &testClock{now: fixedNow}
	s.scanner = NewDeadlineScanner(
		repository.NewProjectRepository(s.db),
		repository.NewNotificationRepository(s.db),
		repository.NewReminderRepository(s.db),
		s.clock.Now,
		zap.NewNop(),
	)
	s.manager = createUser(s.T(), s.db, "manager")
	s.member = createUser(s.T(), s.db, "member")
}

func (s *DeadlineScannerTestSuite) projectDueIn(name string, d time.Duration) *models.Project {
	deadline := fixedNow.Add(d)
	return createProject(s.T(), s.db, name, &deadline, &s.manager.ID, s.member.ID)
}

func (s *DeadlineScannerTestSuite) countRows() (notifications, reminders int64) {
	s.Require().NoError(s.db.Model(&models.Notification{}).Count(&notifications).Error)
	s.Require().NoError(s.db.Model(&models.Reminder{}).Count(&reminders).Error)
	return notifications, reminders
}

func (s *DeadlineScannerTestSuite) TestThresholdDaysNotifyEveryStakeholder() {
	for _, days := range []int{1, 3, 7} {
		s.projectDueIn("Due in "+string(rune('0'+days)), time.Duration(days)*day)
	}

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)

	s.Equal(ScanResult{ProjectsNotified: 3, NotificationsCreated: 6, RemindersCreated: 6}, result)

	for _, userID := range []uint64{s.manager.ID, s.member.ID} {
		var notifications []models.Notification
		s.Require().NoError(s.db.Where("user_id = ?", userID).Find(&notifications).Error)
		s.Len(notifications, 3)
		for _, n := range notifications {
			s.Equal(models.NotificationDeadlineReminder, n.Type)
			s.Equal(models.ResourceProject, n.Related.Kind)
			s.Equal("Project Deadline Approaching", n.Title)
			s.False(n.IsRead)
		}
	}
}

func (s *DeadlineScannerTestSuite) TestMessageAndReminderFields() {
	project := s.projectDueIn("Apollo", 3*day)

	_, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)

	var notification models.Notification
	s.Require().NoError(s.db.Where("user_id = ?", s.manager.ID).First(&notification).Error)
	s.Equal("Project 'Apollo' deadline is in 3 day(s) - May 04, 2024", notification.Message)
	s.Equal(project.Subject(), notification.Related)

	var reminder models.Reminder
	s.Require().NoError(s.db.Where("user_id = ?", s.manager.ID).First(&reminder).Error)
	s.Equal(models.ReminderDeadline, reminder.Type)
	s.Equal(notification.Message, reminder.Description)
	s.Equal(notification.Title, reminder.Title)
	s.True(reminder.RemindAt.Equal(project.Deadline.Add(-day)), "remind_at %s", reminder.RemindAt)
}

func (s *DeadlineScannerTestSuite) TestRemindAtIsOneDayBeforeDeadlineForEveryThreshold() {
	projects := map[uint64]*models.Project{}
	for _, days := range []int{1, 3, 7} {
		p := s.projectDueIn("Project", time.Duration(days)*day+90*time.Minute)
		projects[p.ID] = p
	}

	_, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)

	var reminders []models.Reminder
	s.Require().NoError(s.db.Find(&reminders).Error)
	s.Len(reminders, 6)
	for _, r := range reminders {
		project := projects[r.Related.ID]
		s.Require().NotNil(project)
		s.True(r.RemindAt.Equal(project.Deadline.Add(-day)))
	}
}

func (s *DeadlineScannerTestSuite) TestRerunCreatesNothing() {
	s.projectDueIn("Apollo", 1*day)
	s.projectDueIn("Gemini", 7*day)

	first, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(4, first.NotificationsCreated)

	second, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(ScanResult{ProjectsNotified: 2}, second)

	notifications, reminders := s.countRows()
	s.Equal(int64(4), notifications)
	s.Equal(int64(4), reminders)
}

func (s *DeadlineScannerTestSuite) TestRerunAfterUserReadsNotificationCreatesNothing() {
	s.projectDueIn("Apollo", 3*day)

	_, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Require().NoError(s.db.Model(&models.Notification{}).Where("1 = 1").Update("is_read", true).Error)

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Zero(result.NotificationsCreated)
}

func (s *DeadlineScannerTestSuite) TestNonThresholdDaysAreIgnored() {
	s.projectDueIn("Four days", 4*day)
	s.projectDueIn("Two days", 2*day)
	s.projectDueIn("Six days", 6*day)
	s.projectDueIn("Today", 5*time.Hour)
	s.projectDueIn("Eight days", 8*day)
	s.projectDueIn("Overdue", -1*day)
	createProject(s.T(), s.db, "No deadline", nil, &s.manager.ID, s.member.ID)

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(ScanResult{}, result)

	notifications, reminders := s.countRows()
	s.Zero(notifications)
	s.Zero(reminders)
}

func (s *DeadlineScannerTestSuite) TestPartialDaysRoundDown() {
	s.projectDueIn("Three and a bit", 3*day+23*time.Hour)
	s.projectDueIn("Almost three", 3*day-time.Minute)

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(1, result.ProjectsNotified)

	var notification models.Notification
	s.Require().NoError(s.db.First(&notification).Error)
	s.Contains(notification.Message, "Three and a bit")
	s.Contains(notification.Message, "in 3 day(s)")
}

func (s *DeadlineScannerTestSuite) TestManagerAlsoMemberGetsOneRow() {
	deadline := fixedNow.Add(7 * day)
	createProject(s.T(), s.db, "Solo", &deadline, &s.manager.ID, s.manager.ID)

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(ScanResult{ProjectsNotified: 1, NotificationsCreated: 1, RemindersCreated: 1}, result)

	notifications, reminders := s.countRows()
	s.Equal(int64(1), notifications)
	s.Equal(int64(1), reminders)
}

func (s *DeadlineScannerTestSuite) TestProjectWithoutManagerNotifiesMembers() {
	deadline := fixedNow.Add(1 * day)
	other := createUser(s.T(), s.db, "other")
	createProject(s.T(), s.db, "Unmanaged", &deadline, nil, s.member.ID, other.ID)

	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(2, result.NotificationsCreated)

	var count int64
	s.db.Model(&models.Notification{}).Where("user_id = ?", s.manager.ID).Count(&count)
	s.Zero(count)
}

func (s *DeadlineScannerTestSuite) TestFollowingDaysProduceNewRows() {
	s.projectDueIn("Apollo", 7*day)

	_, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)

	// 7 -> 3 days out: a new message, so new rows with the same remind_at
	s.clock.Advance(4 * day)
	result, err := s.scanner.CheckProjectDeadlines(context.Background())
	s.Require().NoError(err)
	s.Equal(2, result.NotificationsCreated)
	s.Equal(2, result.RemindersCreated)

	var reminders []models.Reminder
	s.Require().NoError(s.db.Where("user_id = ?", s.manager.ID).Find(&reminders).Error)
	s.Require().Len(reminders, 2)
	s.True(reminders[0].RemindAt.Equal(reminders[1].RemindAt))
	s.NotEqual(reminders[0].Description, reminders[1].Description)
}

func TestDeadlineScannerTestSuite(t *testing.T) {
	suite.Run(t, new(DeadlineScannerTestSuite))
}

type stubProjectRepository struct {
	repository.ProjectRepository
	projects []models.Project
	err      error
}

func (r *stubProjectRepository) FindWithDeadlineBetween(from, to time.Time) ([]models.Project, error) {
	return r.projects, r.err
}

type failingNotificationRepository struct {
	repository.NotificationRepository
	failOnCall int
	calls      int
}

func (r *failingNotificationRepository) CreateIfAbsent(n *models.Notification) (bool, error) {
	r.calls++
	if r.calls == r.failOnCall {
		return false, errors.New("connection reset")
	}
	return true, nil
}

type recordingReminderRepository struct {
	repository.ReminderRepository
	created []models.Reminder
}

func (r *recordingReminderRepository) CreateIfAbsent(reminder *models.Reminder) (bool, error) {
	r.created = append(r.created, *reminder)
	return true, nil
}

func stubProject(id uint64, deadline time.Time, managerID uint64, memberIDs ...uint64) models.Project {
	project := models.Project{ID: id, Name: "Stub", Deadline: &deadline, ManagerID: &managerID}
	for _, memberID := range memberIDs {
		project.Members = append(project.Members, models.ProjectMember{ProjectID: id, UserID: memberID})
	}
	return project
}

func TestDeadlineScanner_PersistenceErrorAbortsRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	projects := &stubProjectRepository{projects: []models.Project{
		stubProject(1, fixedNow.Add(day), 10, 11, 12),
		stubProject(2, fixedNow.Add(3*day), 20),
	}}
	notifications := &failingNotificationRepository{failOnCall: 2}
	reminders := &recordingReminderRepository{}

	scanner := NewDeadlineScanner(projects, notifications, reminders, func() time.Time { return fixedNow }, zap.New(core))

	errorsBefore := testutil.ToFloat64(metrics.DeadlineScanRuns.WithLabelValues("error"))

	result, err := scanner.CheckProjectDeadlines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "project 1, user 11")

	// manager of project 1 was handled; nothing after the failure ran
	assert.Equal(t, 2, notifications.calls)
	assert.Len(t, reminders.created, 1)
	assert.Equal(t, 0, result.ProjectsNotified)
	assert.Equal(t, 1, result.NotificationsCreated)

	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(metrics.DeadlineScanRuns.WithLabelValues("error")))
	require.Equal(t, 1, logs.FilterMessage("Deadline scan failed").Len())
}

func TestDeadlineScanner_ProjectLookupError(t *testing.T) {
	projects := &stubProjectRepository{err: errors.New("db down")}
	scanner := NewDeadlineScanner(projects, &failingNotificationRepository{}, &recordingReminderRepository{}, func() time.Time { return fixedNow }, nil)

	_, err := scanner.CheckProjectDeadlines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestDeadlineScanner_StopsWhenContextCancelled(t *testing.T) {
	projects := &stubProjectRepository{projects: []models.Project{stubProject(1, fixedNow.Add(day), 10)}}
	notifications := &failingNotificationRepository{}
	scanner := NewDeadlineScanner(projects, notifications, &recordingReminderRepository{}, func() time.Time { return fixedNow }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.CheckProjectDeadlines(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, notifications.calls)
}

func TestDeadlineScanner_CountsCreatedRecords(t *testing.T) {
	projects := &stubProjectRepository{projects: []models.Project{stubProject(1, fixedNow.Add(7*day), 10, 11)}}
	scanner := NewDeadlineScanner(projects, &failingNotificationRepository{}, &recordingReminderRepository{}, func() time.Time { return fixedNow }, nil)

	before := testutil.ToFloat64(metrics.DeadlineRecordsCreated.WithLabelValues("notification"))

	result, err := scanner.CheckProjectDeadlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotificationsCreated)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.DeadlineRecordsCreated.WithLabelValues("notification")))
}

func TestDaysUntilDeadline(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"exactly seven days", fixedNow.Add(7 * day), 7},
		{"just under one day", fixedNow.Add(day - time.Second), 0},
		{"one day and change", fixedNow.Add(day + 12*time.Hour), 1},
		{"deadline now", fixedNow, 0},
		{"an hour ago", fixedNow.Add(-time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilDeadline(tt.deadline, fixedNow))
		})
	}
}

func TestIsThresholdDay(t *testing.T) {
	for days := -1; days <= 8; days++ {
		want := days == 1 || days == 3 || days == 7
		assert.Equal(t, want, IsThresholdDay(days), "days=%d", days)
	}
}

func TestRecipients_ManagerFirstThenMembersInOrder(t *testing.T) {
	project := stubProject(1, fixedNow, 5, 7, 5, 9)
	assert.Equal(t, []uint64{5, 7, 5, 9}, Recipients(project))

	project.ManagerID = nil
	assert.Equal(t, []uint64{7, 5, 9}, Recipients(project))
}
