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
	ErrAiWorkoutLimit = errors.New("weekly limit of AI-generated workouts reached")
	ErrAiProgramLimit = errors.New("weekly limit of AI-generated programs reached")
	ErrEmptyPrompt    = errors.New("prompt is required")
	ErrAiUnavailable  = errors.New("AI generation is not configured")
)

// aiWeeklyLimit caps AI-generated workouts and programs per user per week.
const aiWeeklyLimit = 3

// ExerciseSuggestion is one planned exercise in a completion payload.
type ExerciseSuggestion struct {
	ExerciseName string `json:"exercise_name"`
	Sets         int    `json:"sets"`
	Reps         int    `json:"reps"`
	Note         string `json:"note,omitempty"`
}

// WorkoutSuggestion is the validated JSON shape of a workout completion.
type WorkoutSuggestion struct {
	Name      string               `json:"name"`
	Exercises []ExerciseSuggestion `json:"workout_exercises"`
}

// ProgramSuggestion is the validated JSON shape of a full-program completion.
type ProgramSuggestion struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Workouts    []WorkoutSuggestion `json:"workouts"`
}

// SuggestionClient produces validated suggestion payloads for a user prompt.
// The completion call itself (and its latency) lives outside this core; the
// client must not be invoked while any service lock is held.
type SuggestionClient interface {
	SuggestWorkout(ctx context.Context, prompt string) (*WorkoutSuggestion, error)
	SuggestProgram(ctx context.Context, prompt string) (*ProgramSuggestion, error)
}

// --- Service Interface ---

// SuggestionService turns completion payloads into catalog entities, flagged
// as AI-generated and counted against a weekly per-user quota.
type SuggestionService interface {
	GenerateWorkout(ctx context.Context, userID, programID primitive.ObjectID, prompt string) (*domain.Workout, error)
	GenerateProgram(ctx context.Context, userID primitive.ObjectID, prompt string) (*domain.Program, error)
	RemainingWorkoutQuota(ctx context.Context, userID primitive.ObjectID) (int, error)
	RemainingProgramQuota(ctx context.Context, userID primitive.ObjectID) (int, error)
}

// --- Service Implementation ---

// suggestionService implements the SuggestionService interface.
type suggestionService struct {
	client              SuggestionClient
	programRepo         repository.ProgramRepository
	workoutRepo         repository.WorkoutRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	progressService     ProgressService
}

// NewSuggestionService creates a new instance of suggestionService.
func NewSuggestionService(
	client SuggestionClient,
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	progressService ProgressService,
) SuggestionService {
	return &suggestionService{
		client:              client,
		programRepo:         programRepo,
		workoutRepo:         workoutRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		exerciseRepo:        exerciseRepo,
		progressService:     progressService,
	}
}

// currentWeek returns the bounds of the current week in UTC: the most recent
// Sunday at midnight through the following Saturday's last instant.
func currentWeek(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := now.AddDate(0, 0, -int(now.Weekday()))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// GenerateWorkout materializes a workout suggestion into the given program.
func (s *suggestionService) GenerateWorkout(ctx context.Context, userID, programID primitive.ObjectID, prompt string) (*domain.Workout, error) {
	if s.client == nil {
		return nil, ErrAiUnavailable
	}
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	// 1. The target program must exist.
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	// 2. Weekly quota.
	from, to := currentWeek(time.Now())
	count, err := s.workoutRepo.CountAiGeneratedInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if count >= aiWeeklyLimit {
		return nil, ErrAiWorkoutLimit
	}

	// 3. Fetch the suggestion. No lock is held across this call.
	suggestion, err := s.client.SuggestWorkout(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if suggestion.Name == "" || len(suggestion.Exercises) == 0 {
		return nil, errors.New("suggestion payload is incomplete")
	}

	// 4. Materialize.
	workout := &domain.Workout{
		ProgramID:     &programID,
		CreatorID:     userID,
		Name:          suggestion.Name,
		IsAiGenerated: true,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID

	if err := s.materializeExercises(ctx, workoutID, suggestion.Exercises); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"workoutId": workoutID.Hex(),
	}).Info("AI workout generated")

	return workout, nil
}

// GenerateProgram materializes a full-program suggestion and activates it as
// the user's current program.
func (s *suggestionService) GenerateProgram(ctx context.Context, userID primitive.ObjectID, prompt string) (*domain.Program, error) {
	if s.client == nil {
		return nil, ErrAiUnavailable
	}
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	from, to := currentWeek(time.Now())
	count, err := s.programRepo.CountAiGeneratedInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if count >= aiWeeklyLimit {
		return nil, ErrAiProgramLimit
	}

	suggestion, err := s.client.SuggestProgram(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if suggestion.Name == "" || len(suggestion.Workouts) == 0 {
		return nil, errors.New("suggestion payload is incomplete")
	}

	program := &domain.Program{
		CreatorID:     userID,
		Name:          suggestion.Name,
		Description:   suggestion.Description,
		IsAiGenerated: true,
	}
	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID

	for i, workoutSuggestion := range suggestion.Workouts {
		workout := &domain.Workout{
			ProgramID:     &programID,
			CreatorID:     userID,
			Name:          workoutSuggestion.Name,
			Order:         i,
			IsAiGenerated: true,
		}
		workoutID, err := s.workoutRepo.Create(ctx, workout)
		if err != nil {
			return nil, err
		}
		if err := s.materializeExercises(ctx, workoutID, workoutSuggestion.Exercises); err != nil {
			return nil, err
		}
	}

	// A freshly generated program becomes the active one right away.
	if _, err := s.progressService.ActivateProgram(ctx, userID, programID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"programId": programID.Hex(),
	}).Info("AI program generated and activated")

	return program, nil
}

// materializeExercises creates the planned exercise entries of one suggested
// workout, find-or-creating each library exercise by name.
func (s *suggestionService) materializeExercises(ctx context.Context, workoutID primitive.ObjectID, suggestions []ExerciseSuggestion) error {
	for i, es := range suggestions {
		if es.ExerciseName == "" {
			continue
		}
		sets, reps := es.Sets, es.Reps
		if sets < 0 {
			sets = 0
		}
		if reps < 0 {
			reps = 0
		}

		exercise, err := s.exerciseRepo.GetByName(ctx, es.ExerciseName)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			exercise = &domain.Exercise{Name: es.ExerciseName}
			exerciseID, createErr := s.exerciseRepo.Create(ctx, exercise)
			if createErr != nil {
				return createErr
			}
			exercise.ID = exerciseID
		}

		we := &domain.WorkoutExercise{
			WorkoutID:    workoutID,
			ExerciseID:   exercise.ID,
			ExerciseName: exercise.Name,
			Sets:         sets,
			Reps:         reps,
			Order:        i,
			Note:         es.Note,
		}
		if _, err := s.workoutExerciseRepo.Create(ctx, we); err != nil {
			return err
		}
	}
	return nil
}

// RemainingWorkoutQuota reports how many AI workouts the user may still
// generate this week.
func (s *suggestionService) RemainingWorkoutQuota(ctx context.Context, userID primitive.ObjectID) (int, error) {
	from, to := currentWeek(time.Now())
	count, err := s.workoutRepo.CountAiGeneratedInRange(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	return remaining(count), nil
}

// RemainingProgramQuota reports how many AI programs the user may still
// generate this week.
func (s *suggestionService) RemainingProgramQuota(ctx context.Context, userID primitive.ObjectID) (int, error) {
	from, to := currentWeek(time.Now())
	count, err := s.programRepo.CountAiGeneratedInRange(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	return remaining(count), nil
}

func remaining(used int64) int {
	left := aiWeeklyLimit - int(used)
	if left < 0 {
		left = 0
	}
	return left
}
