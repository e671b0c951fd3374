package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fixedNow is a Wednesday morning, the time the daily scan normally fires.
var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, name string, deadline *time.Time, managerID *uint64, memberIDs ...uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Deadline:  deadline,
		ManagerID: managerID,
	}
	require.NoError(t, db.Create(project).Error)

	for i, userID := range memberIDs {
		require.NoError(t, db.Create(&models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			JoinedAt:  fixedNow.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	return project
}

func ptr[T any](v T) *T {
	return &v
}
