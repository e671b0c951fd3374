package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrScreenSessionNotFound = errors.New("screen session not found")
	ErrScreenSessionEnded    = errors.New("screen session already ended")
)

// ScreenTimeTracker records how long a user is active between login and
// logout. Each login gets its own session row; nothing is held in memory.
type ScreenTimeTracker struct {
	sessionRepo repository.ScreenSessionRepository
	now         func() time.Time
}

func NewScreenTimeTracker(sessionRepo repository.ScreenSessionRepository, now func() time.Time) *ScreenTimeTracker {
	if now == nil {
		now = time.Now
	}
	return &ScreenTimeTracker{
		sessionRepo: sessionRepo,
		now:         now,
	}
}

// Start opens a session for the user.
func (t *ScreenTimeTracker) Start(userID uint64) (*models.ScreenSession, error) {
	now := t.now()
	session := &models.ScreenSession{
		ID:         uuid.NewString(),
		UserID:     userID,
		StartedAt:  now,
		LastSeenAt: now,
	}
	if err := t.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to start screen session: %w", err)
	}
	return session, nil
}

// Heartbeat credits the time since the previous heartbeat, unless the gap
// exceeds constants.MaxHeartbeatGap (the client was idle or closed).
func (t *ScreenTimeTracker) Heartbeat(sessionID string, userID uint64) (*models.ScreenSession, error) {
	session, err := t.find(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, ErrScreenSessionEnded
	}

	t.advance(session, t.now())
	if err := t.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to record heartbeat: %w", err)
	}
	return session, nil
}

// Stop closes the session. Stopping an ended session is a no-op.
func (t *ScreenTimeTracker) Stop(sessionID string, userID uint64) (*models.ScreenSession, error) {
	session, err := t.find(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return session, nil
	}

	now := t.now()
	t.advance(session, now)
	session.EndedAt = &now
	if err := t.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to stop screen session: %w", err)
	}
	return session, nil
}

func (t *ScreenTimeTracker) find(sessionID string, userID uint64) (*models.ScreenSession, error) {
	session, err := t.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreenSessionNotFound
		}
		return nil, fmt.Errorf("failed to find screen session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrScreenSessionNotFound
	}
	return session, nil
}

// advance credits the whole seconds since the last heartbeat. LastSeenAt
// moves by the credited amount only, so sub-second remainders carry over.
func (t *ScreenTimeTracker) advance(session *models.ScreenSession, now time.Time) {
	gap := now.Sub(session.LastSeenAt)
	if gap <= 0 || gap > constants.MaxHeartbeatGap {
		session.LastSeenAt = now
		return
	}
	credited := gap.Truncate(time.Second)
	session.ActiveSeconds += int64(credited / time.Second)
	session.LastSeenAt = session.LastSeenAt.Add(credited)
}
