package service

import (
	"context"
	"testing"

	"ptapp/coaching-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type programFixture struct {
	svc      ProgramService
	progRepo *fakeProgramRepo
	woRepo   *fakeWorkoutRepo
	weRepo   *fakeWorkoutExerciseRepo
	exRepo   *fakeExerciseRepo
	userRepo *fakeUserRepo
}

func newProgramFixture() *programFixture {
	progRepo := newFakeProgramRepo()
	woRepo := newFakeWorkoutRepo()
	weRepo := newFakeWorkoutExerciseRepo()
	exRepo := newFakeExerciseRepo()
	userRepo := newFakeUserRepo()
	return &programFixture{
		svc:      NewProgramService(progRepo, woRepo, weRepo, exRepo, userRepo),
		progRepo: progRepo,
		woRepo:   woRepo,
		weRepo:   weRepo,
		exRepo:   exRepo,
		userRepo: userRepo,
	}
}

func (f *programFixture) seedUser(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	id, err := f.userRepo.Create(context.Background(), &domain.User{
		Name:  "User",
		Email: email,
		Role:  domain.RoleClient,
	})
	require.NoError(t, err)
	return id
}

func TestCreateProgram_AndFetch(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	created, err := f.svc.CreateProgram(ctx, creatorID, "Hypertrophy Block", "8 weeks")
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	fetched, err := f.svc.GetProgram(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hypertrophy Block", fetched.Name)
	assert.Equal(t, creatorID, fetched.CreatorID)
}

func TestCreateProgram_EmptyName(t *testing.T) {
	f := newProgramFixture()

	_, err := f.svc.CreateProgram(context.Background(), primitive.NewObjectID(), "", "")
	assert.Error(t, err)
}

func TestGetProgram_Missing(t *testing.T) {
	f := newProgramFixture()

	_, err := f.svc.GetProgram(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestCreateWorkout_AttachedToProgram(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	program, err := f.svc.CreateProgram(ctx, creatorID, "Block", "")
	require.NoError(t, err)

	workout, err := f.svc.CreateWorkout(ctx, creatorID, &program.ID, "Push Day", 1)
	require.NoError(t, err)
	require.NotNil(t, workout.ProgramID)
	assert.Equal(t, program.ID, *workout.ProgramID)

	workouts, err := f.svc.GetProgramWorkouts(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Push Day", workouts[0].Name)
}

func TestCreateWorkout_Standalone(t *testing.T) {
	f := newProgramFixture()

	workout, err := f.svc.CreateWorkout(context.Background(), primitive.NewObjectID(), nil, "Quick Session", 0)
	require.NoError(t, err)
	assert.Nil(t, workout.ProgramID)
}

func TestCreateWorkout_ProgramMissing(t *testing.T) {
	f := newProgramFixture()
	missing := primitive.NewObjectID()

	_, err := f.svc.CreateWorkout(context.Background(), primitive.NewObjectID(), &missing, "Push Day", 1)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestAddWorkoutExercise_CreatesLibraryEntry(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	workout, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Pull Day", 1)
	require.NoError(t, err)

	we, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Barbell Row", 4, 8, 1, "pause at chest")
	require.NoError(t, err)
	assert.Equal(t, 4, we.Sets)
	assert.Equal(t, "pause at chest", we.Note)

	ex, err := f.exRepo.GetByName(ctx, "Barbell Row")
	require.NoError(t, err)
	assert.Equal(t, ex.ID, we.ExerciseID)
}

func TestAddWorkoutExercise_ReusesExerciseByName(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	workout, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Pull Day", 1)
	require.NoError(t, err)

	first, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Deadlift", 3, 5, 1, "")
	require.NoError(t, err)
	second, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Deadlift", 5, 3, 2, "")
	require.NoError(t, err)

	assert.Equal(t, first.ExerciseID, second.ExerciseID)
}

func TestAddWorkoutExercise_NegativeTargets(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	workout, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Pull Day", 1)
	require.NoError(t, err)

	_, err = f.svc.AddWorkoutExercise(ctx, workout.ID, "Deadlift", -1, 5, 1, "")
	assert.Error(t, err)
}

func TestAddWorkoutExercise_WorkoutMissing(t *testing.T) {
	f := newProgramFixture()

	_, err := f.svc.AddWorkoutExercise(context.Background(), primitive.NewObjectID(), "Squat", 3, 5, 1, "")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestDeleteProgram_CascadesToPlan(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	program, err := f.svc.CreateProgram(ctx, creatorID, "Block", "")
	require.NoError(t, err)
	workout, err := f.svc.CreateWorkout(ctx, creatorID, &program.ID, "Legs", 1)
	require.NoError(t, err)
	we, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Squat", 5, 5, 1, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProgram(ctx, creatorID, program.ID))

	_, err = f.svc.GetProgram(ctx, program.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	_, err = f.woRepo.GetByID(ctx, workout.ID)
	assert.Error(t, err)
	_, err = f.weRepo.GetByID(ctx, we.ID)
	assert.Error(t, err)
}

func TestDeleteProgram_NotOwner(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	program, err := f.svc.CreateProgram(ctx, primitive.NewObjectID(), "Block", "")
	require.NoError(t, err)

	err = f.svc.DeleteProgram(ctx, primitive.NewObjectID(), program.ID)
	assert.Error(t, err)

	// The program survives.
	_, err = f.svc.GetProgram(ctx, program.ID)
	assert.NoError(t, err)
}

func TestUpdateWorkoutOrder_PartialSuccess(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	first, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Day A", 1)
	require.NoError(t, err)
	second, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Day B", 2)
	require.NoError(t, err)
	missingID := primitive.NewObjectID()

	result, err := f.svc.UpdateWorkoutOrder(ctx, []OrderUpdate{
		{ID: first.ID, Order: 2},
		{ID: missingID, Order: 3},
		{ID: second.ID, Order: 1},
	})
	require.NoError(t, err)

	assert.True(t, result.Partial())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, missingID, result.Errors[0].ID)
	require.Len(t, result.Updated, 2)

	// The valid items were applied despite the failure in between.
	w, err := f.woRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Order)
	w, err = f.woRepo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Order)
}

func TestUpdateExerciseOrder_AllValid(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	workout, err := f.svc.CreateWorkout(ctx, primitive.NewObjectID(), nil, "Day A", 1)
	require.NoError(t, err)
	first, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Squat", 3, 5, 1, "")
	require.NoError(t, err)
	second, err := f.svc.AddWorkoutExercise(ctx, workout.ID, "Lunge", 3, 10, 2, "")
	require.NoError(t, err)

	result, err := f.svc.UpdateExerciseOrder(ctx, []OrderUpdate{
		{ID: first.ID, Order: 2},
		{ID: second.ID, Order: 1},
	})
	require.NoError(t, err)

	assert.False(t, result.Partial())
	assert.Len(t, result.Updated, 2)
}

func TestParticipants_JoinAndLeave(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	userID := f.seedUser(t, "member@example.com")

	program, err := f.svc.CreateProgram(ctx, primitive.NewObjectID(), "Group Block", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.AddParticipant(ctx, program.ID, userID))
	// Joining twice is a no-op.
	require.NoError(t, f.svc.AddParticipant(ctx, program.ID, userID))

	programs, err := f.svc.GetParticipatingPrograms(ctx, userID)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, program.ID, programs[0].ID)

	require.NoError(t, f.svc.RemoveParticipant(ctx, program.ID, userID))

	programs, err = f.svc.GetParticipatingPrograms(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestAddParticipant_UserMissing(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()

	program, err := f.svc.CreateProgram(ctx, primitive.NewObjectID(), "Block", "")
	require.NoError(t, err)

	err = f.svc.AddParticipant(ctx, program.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddParticipant_ProgramMissing(t *testing.T) {
	f := newProgramFixture()
	userID := f.seedUser(t, "someone@example.com")

	err := f.svc.AddParticipant(context.Background(), primitive.NewObjectID(), userID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestRemoveParticipant_NotAMember(t *testing.T) {
	f := newProgramFixture()
	ctx := context.Background()
	userID := f.seedUser(t, "outsider@example.com")

	program, err := f.svc.CreateProgram(ctx, primitive.NewObjectID(), "Block", "")
	require.NoError(t, err)

	err = f.svc.RemoveParticipant(ctx, program.ID, userID)
	assert.Error(t, err)
}
