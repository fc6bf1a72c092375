package repository

import (
	"context"
	"time"

	"ptapp/coaching-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflicting concurrent write")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error)
	GetByParticipantID(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error)
	AddParticipant(ctx context.Context, programID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, programID, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error
	CountAiGeneratedInRange(ctx context.Context, creatorID primitive.ObjectID, from, to time.Time) (int64, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error)
	GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Workout, error)
	UpdateOrder(ctx context.Context, id primitive.ObjectID, order int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountAiGeneratedInRange(ctx context.Context, creatorID primitive.ObjectID, from, to time.Time) (int64, error)
}

// ExerciseRepository defines the interface for interacting with the exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	GetByCreatorID(ctx context.Context, creatorID *primitive.ObjectID) ([]domain.Exercise, error)
}

// WorkoutExerciseRepository defines the interface for planned exercise entries.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, we *domain.WorkoutExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error)
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	UpdateOrder(ctx context.Context, id primitive.ObjectID, order int) error
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// ProgressRepository manages UserProgramProgress rows. Activate and SetActive
// are the commit points for the single-active-program invariant; callers hold
// the per-user lock while invoking them.
type ProgressRepository interface {
	// Activate deactivates every other progress row of the user and
	// find-or-creates the (user, program) row with isActive=true.
	Activate(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error)
	GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgramProgress, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// SessionRepository manages WorkoutSession documents.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutSession, error)
	// Complete flips the session to completed=true, active=false. Returns
	// ErrConflict if the session was already completed.
	Complete(ctx context.Context, id primitive.ObjectID) error
}

// LogRepository manages ExerciseLog documents with their embedded sets.
// AppendSet and DeleteLastSet are conditional on the caller's observed set
// count so the check-and-mutate pair commits as one compare-and-swap; they
// return ErrConflict when the count moved underneath the caller.
type LogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	AppendSet(ctx context.Context, logID primitive.ObjectID, expectedCount int, set domain.ExerciseSet) error
	DeleteLastSet(ctx context.Context, logID primitive.ObjectID, expectedCount int) error
	SetVideoKey(ctx context.Context, logID, setID primitive.ObjectID, videoKey string) error

	// Read-only aggregation feeds for the analytics service.
	GetByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error)
	GetByUserAndExerciseSince(ctx context.Context, userID, exerciseID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error)
	DistinctWeightedExerciseIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}
