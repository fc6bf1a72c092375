package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"
	"ptapp/coaching-backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrLogNotFound        = errors.New("exercise log not found")
	ErrSetNotFound        = errors.New("exercise set not found")
	ErrNoSetsToDelete     = errors.New("no sets to delete")
	ErrSetCountWithinPlan = errors.New("cannot delete the set: the number of sets does not exceed the workout plan")
	ErrSetAppendConflict  = errors.New("set was modified concurrently, please retry")
	ErrVideoUploadURL     = errors.New("failed to generate video upload URL")
	ErrVideoMissing       = errors.New("no video attached to this set")
)

// --- Service Interface ---

// VideoUploadResponse carries the presigned URL plus the object key the client
// must report back when confirming the upload.
type VideoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// LogService manages the execution log of a session: per-exercise logs and
// their append-only sets, bounded below by the plan's target set count.
type LogService interface {
	CreateExerciseLog(ctx context.Context, sessionID primitive.ObjectID, exerciseName string) (*domain.ExerciseLog, error)
	GetExerciseLog(ctx context.Context, logID primitive.ObjectID) (*domain.ExerciseLog, error)
	GetSessionLogs(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	AppendSet(ctx context.Context, logID primitive.ObjectID, reps *int, weight *float64) (*domain.ExerciseSet, error)
	DeleteLastSet(ctx context.Context, logID primitive.ObjectID) error

	// Form-check video flow: presigned upload, confirm, delete.
	RequestSetVideoUploadURL(ctx context.Context, logID, setID primitive.ObjectID, contentType string) (*VideoUploadResponse, error)
	ConfirmSetVideo(ctx context.Context, logID, setID primitive.ObjectID, objectKey string) error
	DeleteSetVideo(ctx context.Context, logID, setID primitive.ObjectID) error
}

// --- Service Implementation ---

// logService implements the LogService interface.
type logService struct {
	logRepo             repository.LogRepository
	sessionRepo         repository.SessionRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	fileStorage         storage.FileStorage
}

// NewLogService creates a new instance of logService.
func NewLogService(
	logRepo repository.LogRepository,
	sessionRepo repository.SessionRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
) LogService {
	return &logService{
		logRepo:             logRepo,
		sessionRepo:         sessionRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		exerciseRepo:        exerciseRepo,
		fileStorage:         fileStorage,
	}
}

// CreateExerciseLog adds an ad-hoc exercise to a running session: the named
// exercise is found-or-created in the library, wrapped in a zero-target
// WorkoutExercise, and given an empty log.
func (s *logService) CreateExerciseLog(ctx context.Context, sessionID primitive.ObjectID, exerciseName string) (*domain.ExerciseLog, error) {
	if exerciseName == "" {
		return nil, errors.New("exercise name is required")
	}

	// 1. The session must exist.
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// 2. Find-or-create the library exercise by name.
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

	// 3. Ad-hoc entries carry no plan targets, so the tail-delete guard never
	// blocks cleanup of their sets.
	we := &domain.WorkoutExercise{
		WorkoutID:    session.WorkoutID,
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Sets:         0,
		Reps:         0,
	}
	weID, err := s.workoutExerciseRepo.Create(ctx, we)
	if err != nil {
		return nil, err
	}

	// 4. Create the empty log.
	log := &domain.ExerciseLog{
		SessionID:         sessionID,
		WorkoutExerciseID: weID,
		UserID:            session.UserID,
		ExerciseID:        exercise.ID,
		SessionDate:       session.Date,
		SetsCompleted:     0,
	}
	logID, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

// GetExerciseLog retrieves one log by ID.
func (s *logService) GetExerciseLog(ctx context.Context, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return log, nil
}

// GetSessionLogs retrieves all logs of a session.
func (s *logService) GetSessionLogs(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.logRepo.GetBySessionID(ctx, sessionID)
}

// AppendSet appends the next set to a log. The set number continues from the
// last surviving set, so after a tail delete the vacated number is reused.
// Retries once on a concurrent append to the same log.
func (s *logService) AppendSet(ctx context.Context, logID primitive.ObjectID, reps *int, weight *float64) (*domain.ExerciseSet, error) {
	for attempt := 0; attempt < 2; attempt++ {
		log, err := s.logRepo.GetByID(ctx, logID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrLogNotFound
			}
			return nil, err
		}

		set := domain.ExerciseSet{
			ID:        primitive.NewObjectID(),
			SetNumber: log.NextSetNumber(),
			Reps:      reps,
			Weight:    weight,
			CreatedAt: time.Now().UTC(),
		}

		err = s.logRepo.AppendSet(ctx, logID, log.SetsCompleted, set)
		if err == nil {
			return &set, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		// CAS miss: re-read and retry with the fresh tail.
	}
	return nil, ErrSetAppendConflict
}

// DeleteLastSet removes the highest-numbered set, but only while the logged
// count exceeds the plan's target: overage sets can be cleaned up, planned
// ones cannot be destroyed.
func (s *logService) DeleteLastSet(ctx context.Context, logID primitive.ObjectID) error {
	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	if len(log.Sets) == 0 {
		return ErrNoSetsToDelete
	}

	we, err := s.workoutExerciseRepo.GetByID(ctx, log.WorkoutExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	if len(log.Sets) <= we.Sets {
		return ErrSetCountWithinPlan
	}

	err = s.logRepo.DeleteLastSet(ctx, logID, log.SetsCompleted)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}

// === Form-check videos ===

// RequestSetVideoUploadURL generates a presigned URL for uploading a video of
// one completed set.
func (s *logService) RequestSetVideoUploadURL(ctx context.Context, logID, setID primitive.ObjectID, contentType string) (*VideoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, errors.New("invalid or missing video content type")
	}

	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	if findSet(log, setID) == nil {
		return nil, ErrSetNotFound
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("set-videos", log.UserID.Hex(), logID.Hex(),
		fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrVideoUploadURL
	}

	return &VideoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmSetVideo records the uploaded object key on the set. Called after
// the client has PUT the file to the presigned URL.
func (s *logService) ConfirmSetVideo(ctx context.Context, logID, setID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	err := s.logRepo.SetVideoKey(ctx, logID, setID, objectKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSetNotFound
	}
	return err
}

// DeleteSetVideo removes the video object and clears the reference on the set.
func (s *logService) DeleteSetVideo(ctx context.Context, logID, setID primitive.ObjectID) error {
	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	set := findSet(log, setID)
	if set == nil {
		return ErrSetNotFound
	}
	if set.VideoKey == "" {
		return ErrVideoMissing
	}

	if err := s.fileStorage.DeleteObject(ctx, set.VideoKey); err != nil {
		return err
	}
	return s.logRepo.SetVideoKey(ctx, logID, setID, "")
}

func findSet(log *domain.ExerciseLog, setID primitive.ObjectID) *domain.ExerciseSet {
	for i := range log.Sets {
		if log.Sets[i].ID == setID {
			return &log.Sets[i]
		}
	}
	return nil
}
