package service

import (
	"context"
	"errors"
	"time"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionConflict  = errors.New("another workout session is already active")
	ErrSessionCompleted = errors.New("session already completed")
)

// --- Service Interface ---

// SessionService drives the workout session state machine:
// created -> active -> completed, with no way back.
type SessionService interface {
	StartSession(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.WorkoutSession, error)
	CheckActiveSession(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	EndSession(ctx context.Context, sessionID primitive.ObjectID) error
	GetSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetUserSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo  repository.SessionRepository
	progressRepo repository.ProgressRepository
	workoutRepo  repository.WorkoutRepository
	locks        *UserLocks
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	progressRepo repository.ProgressRepository,
	workoutRepo repository.WorkoutRepository,
	locks *UserLocks,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		progressRepo: progressRepo,
		workoutRepo:  workoutRepo,
		locks:        locks,
	}
}

// StartSession opens a new session for the given workout under the user's
// active program. Rejects with ErrSessionConflict while another session is
// active, and with ErrNoActiveProgram when the user follows no program.
func (s *sessionService) StartSession(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if userID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, errors.New("user ID and workout ID are required")
	}

	// 1. The workout must exist.
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	// 2. Check-then-create under the user's lock.
	unlock := s.locks.Lock(userID)
	defer unlock()

	// Uniqueness is scoped to the user, not to the program in the request:
	// an active session under any of the user's progress rows blocks.
	if _, err := s.sessionRepo.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrSessionConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	progress, err := s.progressRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveProgram
		}
		return nil, err
	}

	session := &domain.WorkoutSession{
		ProgressID: progress.ID,
		UserID:     userID,
		WorkoutID:  workoutID,
		Date:       time.Now().UTC(),
		Active:     true,
		Completed:  false,
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSessionConflict
		}
		return nil, err
	}
	session.ID = sessionID

	logrus.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"workoutId": workoutID.Hex(),
		"sessionId": sessionID.Hex(),
	}).Info("workout session started")

	return session, nil
}

// CheckActiveSession returns the user's active, not yet completed session, or
// nil when there is none. A pure read, safe to poll.
func (s *sessionService) CheckActiveSession(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// EndSession completes a session. Irreversible: a second call reports
// ErrSessionCompleted.
func (s *sessionService) EndSession(ctx context.Context, sessionID primitive.ObjectID) error {
	if sessionID == primitive.NilObjectID {
		return errors.New("session ID is required")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	if err := s.sessionRepo.Complete(ctx, sessionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrSessionNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrSessionCompleted
		default:
			return err
		}
	}

	logrus.WithField("sessionId", sessionID.Hex()).Info("workout session ended")
	return nil
}

// GetSession retrieves one session by ID.
func (s *sessionService) GetSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// GetUserSessions retrieves all sessions of a user, oldest first.
func (s *sessionService) GetUserSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.GetByUser(ctx, userID)
}
