package service

import (
	"context"
	"sync"
	"time"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the conditional-update semantics of
// the mongo implementations (CAS on set counts, conflict on a second active
// session) so the services can be exercised without a database.

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	t.ClientIDs = append(t.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TrainerID = &trainerID
	return nil
}

// --- programs ---

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs map[primitive.ObjectID]*domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if program.ID == primitive.NilObjectID {
		program.ID = primitive.NewObjectID()
	}
	program.CreatedAt = time.Now().UTC()
	cp := *program
	r.programs[program.ID] = &cp
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgramRepo) GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Program
	for _, p := range r.programs {
		if p.CreatorID == creatorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) GetByParticipantID(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Program
	for _, p := range r.programs {
		for _, id := range p.ParticipantIDs {
			if id == userID {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) AddParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[programID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range p.ParticipantIDs {
		if id == userID {
			return nil
		}
	}
	p.ParticipantIDs = append(p.ParticipantIDs, userID)
	return nil
}

func (r *fakeProgramRepo) RemoveParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[programID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, id := range p.ParticipantIDs {
		if id == userID {
			p.ParticipantIDs = append(p.ParticipantIDs[:i], p.ParticipantIDs[i+1:]...)
			return nil
		}
	}
	return repository.ErrUpdateFailed
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.CreatorID != creatorID {
		return repository.ErrDeleteFailed
	}
	delete(r.programs, id)
	return nil
}

func (r *fakeProgramRepo) CountAiGeneratedInRange(ctx context.Context, creatorID primitive.ObjectID, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.programs {
		if p.CreatorID == creatorID && p.IsAiGenerated && !p.CreatedAt.Before(from) && !p.CreatedAt.After(to) {
			n++
		}
	}
	return n, nil
}

// --- workouts ---

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if workout.ID == primitive.NilObjectID {
		workout.ID = primitive.NewObjectID()
	}
	workout.CreatedAt = time.Now().UTC()
	cp := *workout
	r.workouts[workout.ID] = &cp
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorkoutRepo) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.ProgramID != nil && *w.ProgramID == programID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.CreatorID == creatorID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) UpdateOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.Order = order
	return nil
}

func (r *fakeWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *fakeWorkoutRepo) CountAiGeneratedInRange(ctx context.Context, creatorID primitive.ObjectID, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, w := range r.workouts {
		if w.CreatorID == creatorID && w.IsAiGenerated && !w.CreatedAt.Before(from) && !w.CreatedAt.After(to) {
			n++
		}
	}
	return n, nil
}

// --- exercises ---

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exercise.ID == primitive.NilObjectID {
		exercise.ID = primitive.NewObjectID()
	}
	cp := *exercise
	r.exercises[exercise.ID] = &cp
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeExerciseRepo) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exercises {
		if e.Name == name {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, id := range ids {
		if e, ok := r.exercises[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) GetByCreatorID(ctx context.Context, creatorID *primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, e := range r.exercises {
		switch {
		case creatorID == nil && e.CreatorID == nil:
			out = append(out, *e)
		case creatorID != nil && e.CreatorID != nil && *e.CreatorID == *creatorID:
			out = append(out, *e)
		}
	}
	return out, nil
}

// --- workout exercises ---

type fakeWorkoutExerciseRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*domain.WorkoutExercise
}

func newFakeWorkoutExerciseRepo() *fakeWorkoutExerciseRepo {
	return &fakeWorkoutExerciseRepo{entries: make(map[primitive.ObjectID]*domain.WorkoutExercise)}
}

func (r *fakeWorkoutExerciseRepo) Create(ctx context.Context, we *domain.WorkoutExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if we.ID == primitive.NilObjectID {
		we.ID = primitive.NewObjectID()
	}
	cp := *we
	r.entries[we.ID] = &cp
	return we.ID, nil
}

func (r *fakeWorkoutExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	we, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *we
	return &cp, nil
}

func (r *fakeWorkoutExerciseRepo) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutExercise
	for _, we := range r.entries {
		if we.WorkoutID == workoutID {
			out = append(out, *we)
		}
	}
	return out, nil
}

func (r *fakeWorkoutExerciseRepo) UpdateOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	we, ok := r.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	we.Order = order
	return nil
}

func (r *fakeWorkoutExerciseRepo) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, we := range r.entries {
		if we.WorkoutID == workoutID {
			delete(r.entries, id)
		}
	}
	return nil
}

// --- progress ---

type fakeProgressRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]*domain.UserProgramProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[primitive.ObjectID]*domain.UserProgramProgress)}
}

func (r *fakeProgressRepo) Activate(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *domain.UserProgramProgress
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if row.ProgramID == programID {
			target = row
		} else {
			row.IsActive = false
		}
	}
	if target == nil {
		target = &domain.UserProgramProgress{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			ProgramID: programID,
			StartedAt: time.Now().UTC(),
		}
		r.rows[target.ID] = target
	}
	target.IsActive = true
	target.UpdatedAt = time.Now().UTC()
	cp := *target
	return &cp, nil
}

func (r *fakeProgressRepo) GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.ProgramID == programID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgressRepo) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.IsActive {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgressRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.IsActive = active
	row.UpdatedAt = time.Now().UTC()
	return nil
}

// activeCount reports how many of the user's rows are active, for invariant
// assertions.
func (r *fakeProgressRepo) activeCount(userID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.UserID == userID && row.IsActive {
			n++
		}
	}
	return n
}

// --- sessions ---

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*domain.WorkoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.WorkoutSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Partial unique index analogue: one active session per user.
	if session.Active {
		for _, s := range r.sessions {
			if s.UserID == session.UserID && s.Active {
				return primitive.NilObjectID, repository.ErrConflict
			}
		}
	}
	session.ID = primitive.NewObjectID()
	if session.Date.IsZero() {
		session.Date = time.Now().UTC()
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.Active && !s.Completed {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Complete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.Completed {
		return repository.ErrConflict
	}
	s.Completed = true
	s.Active = false
	return nil
}

// --- exercise logs ---

type fakeLogRepo struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]*domain.ExerciseLog
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: make(map[primitive.ObjectID]*domain.ExerciseLog)}
}

func (r *fakeLogRepo) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == primitive.NilObjectID {
		log.ID = primitive.NewObjectID()
	}
	log.CreatedAt = time.Now().UTC()
	cp := *log
	cp.Sets = append([]domain.ExerciseSet(nil), log.Sets...)
	r.logs[log.ID] = &cp
	return log.ID, nil
}

func (r *fakeLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	cp.Sets = append([]domain.ExerciseSet(nil), l.Sets...)
	return &cp, nil
}

func (r *fakeLogRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.SessionID == sessionID {
			cp := *l
			cp.Sets = append([]domain.ExerciseSet(nil), l.Sets...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) AppendSet(ctx context.Context, logID primitive.ObjectID, expectedCount int, set domain.ExerciseSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[logID]
	if !ok {
		return repository.ErrNotFound
	}
	if l.SetsCompleted != expectedCount {
		return repository.ErrConflict
	}
	l.Sets = append(l.Sets, set)
	l.SetsCompleted++
	return nil
}

func (r *fakeLogRepo) DeleteLastSet(ctx context.Context, logID primitive.ObjectID, expectedCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[logID]
	if !ok {
		return repository.ErrNotFound
	}
	if l.SetsCompleted != expectedCount || len(l.Sets) == 0 {
		return repository.ErrConflict
	}
	l.Sets = l.Sets[:len(l.Sets)-1]
	l.SetsCompleted--
	return nil
}

func (r *fakeLogRepo) SetVideoKey(ctx context.Context, logID, setID primitive.ObjectID, videoKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[logID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range l.Sets {
		if l.Sets[i].ID == setID {
			l.Sets[i].VideoKey = videoKey
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeLogRepo) GetByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.UserID == userID && !l.SessionDate.Before(since) {
			cp := *l
			cp.Sets = append([]domain.ExerciseSet(nil), l.Sets...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) GetByUserAndExerciseSince(ctx context.Context, userID, exerciseID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExerciseLog
	for _, l := range r.logs {
		if l.UserID == userID && l.ExerciseID == exerciseID && !l.SessionDate.Before(since) {
			cp := *l
			cp.Sets = append([]domain.ExerciseSet(nil), l.Sets...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) DistinctWeightedExerciseIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[primitive.ObjectID]bool)
	var out []primitive.ObjectID
	for _, l := range r.logs {
		if l.UserID != userID || seen[l.ExerciseID] {
			continue
		}
		for _, set := range l.Sets {
			if set.Weight != nil {
				seen[l.ExerciseID] = true
				out = append(out, l.ExerciseID)
				break
			}
		}
	}
	return out, nil
}

// --- storage ---

type fakeFileStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- AI suggestions ---

type fakeSuggestionClient struct {
	workout *WorkoutSuggestion
	program *ProgramSuggestion
	err     error
}

func (f *fakeSuggestionClient) SuggestWorkout(ctx context.Context, prompt string) (*WorkoutSuggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workout, nil
}

func (f *fakeSuggestionClient) SuggestProgram(ctx context.Context, prompt string) (*ProgramSuggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.program, nil
}
