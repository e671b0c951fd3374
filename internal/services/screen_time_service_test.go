package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/repository"
)

func TestScreenTimeTracker(t *testing.T) {
	db := openTestDB(t)
	clock := &testClock{now: fixedNow}
	tracker := NewScreenTimeTracker(repository.NewScreenSessionRepository(db), clock.Now)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	session, err := tracker.Start(alice.ID)
	require.NoError(t, err)
	assert.Len(t, session.ID, 36)
	assert.True(t, session.Active())

	clock.Advance(45 * time.Second)
	session, err = tracker.Heartbeat(session.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), session.ActiveSeconds)

	// idle gap longer than the heartbeat window is not credited
	clock.Advance(10 * time.Minute)
	session, err = tracker.Heartbeat(session.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), session.ActiveSeconds)

	_, err = tracker.Heartbeat(session.ID, bob.ID)
	assert.ErrorIs(t, err, ErrScreenSessionNotFound)

	clock.Advance(time.Minute)
	stopped, err := tracker.Stop(session.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(105), stopped.ActiveSeconds)
	require.NotNil(t, stopped.EndedAt)

	clock.Advance(time.Minute)
	again, err := tracker.Stop(session.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(105), again.ActiveSeconds)

	_, err = tracker.Heartbeat(session.ID, alice.ID)
	assert.ErrorIs(t, err, ErrScreenSessionEnded)

	_, err = tracker.Heartbeat("missing", alice.ID)
	assert.ErrorIs(t, err, ErrScreenSessionNotFound)
}

func TestScreenTimeTracker_CarriesSubSecondRemainder(t *testing.T) {
	db := openTestDB(t)
	clock := &testClock{now: fixedNow}
	tracker := NewScreenTimeTracker(repository.NewScreenSessionRepository(db), clock.Now)
	alice := createUser(t, db, "alice")

	session, err := tracker.Start(alice.ID)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		clock.Advance(30*time.Second + 900*time.Millisecond)
		session, err = tracker.Heartbeat(session.ID, alice.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(309), session.ActiveSeconds)
}
