package service

import (
	"context"
	"errors"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound  = errors.New("program not found")
	ErrProgressNotFound = errors.New("user program progress not found")
	ErrProgramInactive  = errors.New("program is already inactive")
	ErrNoActiveProgram  = errors.New("no active program found")
)

// --- Service Interface ---

// ProgressService governs which program is "live" for a user. At most one
// progress row per user is active at any instant.
type ProgressService interface {
	ActivateProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error)
	DeactivateProgram(ctx context.Context, userID, programID primitive.ObjectID) error
	GetActiveProgram(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgramProgress, error)
}

// --- Service Implementation ---

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo repository.ProgressRepository
	programRepo  repository.ProgramRepository
	locks        *UserLocks
}

// NewProgressService creates a new instance of progressService. The locks
// argument is shared with the session service so program activation and
// session starts serialize against each other for the same user.
func NewProgressService(progressRepo repository.ProgressRepository, programRepo repository.ProgramRepository, locks *UserLocks) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		programRepo:  programRepo,
		locks:        locks,
	}
}

// ActivateProgram makes the given program the user's single active one.
// Find-or-creates the progress row and deactivates every other row of the
// user. Idempotent: re-activating the already-active program is a no-op apart
// from the timestamp.
func (s *progressService) ActivateProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	if userID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return nil, errors.New("user ID and program ID are required")
	}

	// 1. The program must exist.
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	// 2. Deactivate-others + upsert-active under the user's lock.
	unlock := s.locks.Lock(userID)
	defer unlock()

	progress, err := s.progressRepo.Activate(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"programId": programID.Hex(),
	}).Info("program activated")

	return progress, nil
}

// DeactivateProgram flips the (user, program) progress row to inactive. Other
// users' and other programs' rows are untouched.
func (s *progressService) DeactivateProgram(ctx context.Context, userID, programID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return errors.New("user ID and program ID are required")
	}

	// 1. The program must exist.
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}

	// 2. Check-then-flip under the user's lock.
	unlock := s.locks.Lock(userID)
	defer unlock()

	progress, err := s.progressRepo.GetByUserAndProgram(ctx, userID, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return err
	}
	if !progress.IsActive {
		return ErrProgramInactive
	}

	return s.progressRepo.SetActive(ctx, progress.ID, false)
}

// GetActiveProgram returns the user's single active progress row.
func (s *progressService) GetActiveProgram(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	progress, err := s.progressRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveProgram
		}
		return nil, err
	}
	return progress, nil
}
