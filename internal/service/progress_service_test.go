package service

import (
	"context"
	"testing"

	"ptapp/coaching-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProgressFixture() (ProgressService, *fakeProgressRepo, *fakeProgramRepo) {
	progressRepo := newFakeProgressRepo()
	programRepo := newFakeProgramRepo()
	svc := NewProgressService(progressRepo, programRepo, NewUserLocks())
	return svc, progressRepo, programRepo
}

func seedProgram(t *testing.T, programRepo *fakeProgramRepo, creatorID primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	id, err := programRepo.Create(context.Background(), &domain.Program{
		CreatorID: creatorID,
		Name:      "Strength Block",
	})
	require.NoError(t, err)
	return id
}

func TestActivateProgram_CreatesActiveRow(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, userID)

	progress, err := svc.ActivateProgram(context.Background(), userID, programID)
	require.NoError(t, err)

	assert.True(t, progress.IsActive)
	assert.Equal(t, userID, progress.UserID)
	assert.Equal(t, programID, progress.ProgramID)
	assert.False(t, progress.StartedAt.IsZero())
	assert.Equal(t, 1, progressRepo.activeCount(userID))
}

func TestActivateProgram_DeactivatesOthers(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	first := seedProgram(t, programRepo, userID)
	second := seedProgram(t, programRepo, userID)

	_, err := svc.ActivateProgram(context.Background(), userID, first)
	require.NoError(t, err)
	_, err = svc.ActivateProgram(context.Background(), userID, second)
	require.NoError(t, err)

	// Single-active invariant: only the latest activation survives.
	assert.Equal(t, 1, progressRepo.activeCount(userID))
	active, err := svc.GetActiveProgram(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, second, active.ProgramID)

	// The first program's row still exists, inactive.
	row, err := progressRepo.GetByUserAndProgram(context.Background(), userID, first)
	require.NoError(t, err)
	assert.False(t, row.IsActive)
}

func TestActivateProgram_Reactivate(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, userID)

	first, err := svc.ActivateProgram(context.Background(), userID, programID)
	require.NoError(t, err)
	second, err := svc.ActivateProgram(context.Background(), userID, programID)
	require.NoError(t, err)

	// Same row, not a duplicate.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, progressRepo.activeCount(userID))
}

func TestActivateProgram_OtherUsersUntouched(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, alice)

	_, err := svc.ActivateProgram(context.Background(), alice, programID)
	require.NoError(t, err)
	_, err = svc.ActivateProgram(context.Background(), bob, programID)
	require.NoError(t, err)

	assert.Equal(t, 1, progressRepo.activeCount(alice))
	assert.Equal(t, 1, progressRepo.activeCount(bob))
}

func TestActivateProgram_ProgramMissing(t *testing.T) {
	svc, _, _ := newProgressFixture()

	_, err := svc.ActivateProgram(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestDeactivateProgram_Flips(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, userID)

	_, err := svc.ActivateProgram(context.Background(), userID, programID)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateProgram(context.Background(), userID, programID))
	assert.Equal(t, 0, progressRepo.activeCount(userID))

	_, err = svc.GetActiveProgram(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoActiveProgram)
}

func TestDeactivateProgram_AlreadyInactive(t *testing.T) {
	svc, _, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, userID)

	_, err := svc.ActivateProgram(context.Background(), userID, programID)
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateProgram(context.Background(), userID, programID))

	err = svc.DeactivateProgram(context.Background(), userID, programID)
	assert.ErrorIs(t, err, ErrProgramInactive)
}

func TestDeactivateProgram_NoProgressRow(t *testing.T) {
	svc, _, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programID := seedProgram(t, programRepo, userID)

	err := svc.DeactivateProgram(context.Background(), userID, programID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestActivateProgram_ConcurrentSameUser(t *testing.T) {
	svc, progressRepo, programRepo := newProgressFixture()
	userID := primitive.NewObjectID()
	programs := []primitive.ObjectID{
		seedProgram(t, programRepo, userID),
		seedProgram(t, programRepo, userID),
		seedProgram(t, programRepo, userID),
	}

	done := make(chan error, len(programs)*5)
	for i := 0; i < len(programs)*5; i++ {
		programID := programs[i%len(programs)]
		go func() {
			_, err := svc.ActivateProgram(context.Background(), userID, programID)
			done <- err
		}()
	}
	for i := 0; i < len(programs)*5; i++ {
		require.NoError(t, <-done)
	}

	// Whatever interleaving happened, exactly one row is active.
	assert.Equal(t, 1, progressRepo.activeCount(userID))
}
