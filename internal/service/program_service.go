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
	ErrUserNotFound        = errors.New("user not found")
	ErrNotParticipant      = errors.New("user is not a participant of this program")
	ErrProgramAccessDenied = errors.New("access denied to modify this program")
)

// OrderUpdate is one (id, order) pair in a batch reorder request.
type OrderUpdate struct {
	ID    primitive.ObjectID `json:"id"`
	Order int                `json:"order"`
}

// OrderError reports one failed item of a batch reorder.
type OrderError struct {
	ID    primitive.ObjectID `json:"id"`
	Error string             `json:"error"`
}

// BatchOrderResult carries both the successes and the failures of a reorder
// batch. A failed item never aborts the rest of the batch.
type BatchOrderResult struct {
	Updated []OrderUpdate `json:"updated"`
	Errors  []OrderError  `json:"errors,omitempty"`
}

// Partial reports whether the batch had at least one failure.
func (r *BatchOrderResult) Partial() bool {
	return len(r.Errors) > 0
}

// --- Service Interface ---

// ProgramService manages the catalog: programs, their workouts, and planned
// exercises. Plan data is immutable from a running session's point of view;
// edits here never touch execution logs.
type ProgramService interface {
	CreateProgram(ctx context.Context, creatorID primitive.ObjectID, name, description string) (*domain.Program, error)
	GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error)
	GetUserPrograms(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error)
	DeleteProgram(ctx context.Context, creatorID, programID primitive.ObjectID) error

	CreateWorkout(ctx context.Context, creatorID primitive.ObjectID, programID *primitive.ObjectID, name string, order int) (*domain.Workout, error)
	GetProgramWorkouts(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error)
	AddWorkoutExercise(ctx context.Context, workoutID primitive.ObjectID, exerciseName string, sets, reps, order int, note string) (*domain.WorkoutExercise, error)
	GetWorkoutExercises(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error)

	UpdateWorkoutOrder(ctx context.Context, updates []OrderUpdate) (*BatchOrderResult, error)
	UpdateExerciseOrder(ctx context.Context, updates []OrderUpdate) (*BatchOrderResult, error)

	AddParticipant(ctx context.Context, programID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, programID, userID primitive.ObjectID) error
	GetParticipatingPrograms(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error)
}

// --- Service Implementation ---

// programService implements the ProgramService interface.
type programService struct {
	programRepo         repository.ProgramRepository
	workoutRepo         repository.WorkoutRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	userRepo            repository.UserRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
) ProgramService {
	return &programService{
		programRepo:         programRepo,
		workoutRepo:         workoutRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		exerciseRepo:        exerciseRepo,
		userRepo:            userRepo,
	}
}

// CreateProgram creates an empty program owned by the user.
func (s *programService) CreateProgram(ctx context.Context, creatorID primitive.ObjectID, name, description string) (*domain.Program, error) {
	if name == "" {
		return nil, errors.New("program name is required")
	}
	program := &domain.Program{
		CreatorID:   creatorID,
		Name:        name,
		Description: description,
	}
	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// GetProgram retrieves one program by ID.
func (s *programService) GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// GetUserPrograms retrieves the programs owned by a user.
func (s *programService) GetUserPrograms(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByCreatorID(ctx, creatorID)
}

// DeleteProgram removes a program the user owns, cascading to its workouts
// and their planned exercises.
func (s *programService) DeleteProgram(ctx context.Context, creatorID, programID primitive.ObjectID) error {
	workouts, err := s.workoutRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return err
	}

	if err := s.programRepo.Delete(ctx, programID, creatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Absent OR owned by someone else; the repo filter folds both.
			return ErrProgramNotFound
		}
		return err
	}

	for _, workout := range workouts {
		if err := s.workoutExerciseRepo.DeleteByWorkoutID(ctx, workout.ID); err != nil {
			return err
		}
		if err := s.workoutRepo.Delete(ctx, workout.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	logrus.WithField("programId", programID.Hex()).Info("program deleted")
	return nil
}

// CreateWorkout creates a workout, attached to a program or standalone.
func (s *programService) CreateWorkout(ctx context.Context, creatorID primitive.ObjectID, programID *primitive.ObjectID, name string, order int) (*domain.Workout, error) {
	if name == "" {
		return nil, errors.New("workout name is required")
	}
	if programID != nil {
		if _, err := s.programRepo.GetByID(ctx, *programID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProgramNotFound
			}
			return nil, err
		}
	}

	workout := &domain.Workout{
		ProgramID: programID,
		CreatorID: creatorID,
		Name:      name,
		Order:     order,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// GetProgramWorkouts retrieves the workouts of a program in display order.
func (s *programService) GetProgramWorkouts(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return s.workoutRepo.GetByProgramID(ctx, programID)
}

// AddWorkoutExercise adds a planned exercise to a workout. The exercise is
// found-or-created in the library by name.
func (s *programService) AddWorkoutExercise(ctx context.Context, workoutID primitive.ObjectID, exerciseName string, sets, reps, order int, note string) (*domain.WorkoutExercise, error) {
	if exerciseName == "" {
		return nil, errors.New("exercise name is required")
	}
	if sets < 0 || reps < 0 {
		return nil, errors.New("planned sets and reps must not be negative")
	}

	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	exercise, err := s.exerciseRepo.GetByName(ctx, exerciseName)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		exercise = &domain.Exercise{Name: exerciseName}
		exerciseID, createErr := s.exerciseRepo.Create(ctx, exercise)
		if createErr != nil {
			return nil, createErr
		}
		exercise.ID = exerciseID
	}

	we := &domain.WorkoutExercise{
		WorkoutID:    workoutID,
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Sets:         sets,
		Reps:         reps,
		Order:        order,
		Note:         note,
	}
	weID, err := s.workoutExerciseRepo.Create(ctx, we)
	if err != nil {
		return nil, err
	}
	we.ID = weID
	return we, nil
}

// GetWorkoutExercises retrieves the planned exercises of a workout in order.
func (s *programService) GetWorkoutExercises(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutExerciseRepo.GetByWorkoutID(ctx, workoutID)
}

// UpdateWorkoutOrder applies a batch of workout reorderings. Failed items are
// collected and reported next to the successes; the batch never aborts early.
func (s *programService) UpdateWorkoutOrder(ctx context.Context, updates []OrderUpdate) (*BatchOrderResult, error) {
	result := &BatchOrderResult{Updated: []OrderUpdate{}}
	for _, item := range updates {
		if err := s.workoutRepo.UpdateOrder(ctx, item.ID, item.Order); err != nil {
			msg := "workout does not exist"
			if !errors.Is(err, repository.ErrNotFound) {
				msg = err.Error()
			}
			result.Errors = append(result.Errors, OrderError{ID: item.ID, Error: msg})
			continue
		}
		result.Updated = append(result.Updated, item)
	}
	return result, nil
}

// UpdateExerciseOrder applies a batch of planned-exercise reorderings, with
// the same partial-success contract as UpdateWorkoutOrder.
func (s *programService) UpdateExerciseOrder(ctx context.Context, updates []OrderUpdate) (*BatchOrderResult, error) {
	result := &BatchOrderResult{Updated: []OrderUpdate{}}
	for _, item := range updates {
		if err := s.workoutExerciseRepo.UpdateOrder(ctx, item.ID, item.Order); err != nil {
			msg := "workout exercise does not exist"
			if !errors.Is(err, repository.ErrNotFound) {
				msg = err.Error()
			}
			result.Errors = append(result.Errors, OrderError{ID: item.ID, Error: msg})
			continue
		}
		result.Updated = append(result.Updated, item)
	}
	return result, nil
}

// AddParticipant adds a user to a program's participant list.
func (s *programService) AddParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	err := s.programRepo.AddParticipant(ctx, programID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// RemoveParticipant removes a user from a program's participant list.
func (s *programService) RemoveParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	err := s.programRepo.RemoveParticipant(ctx, programID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotParticipant
	}
	return err
}

// GetParticipatingPrograms retrieves the programs a user participates in.
func (s *programService) GetParticipatingPrograms(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByParticipantID(ctx, userID)
}
