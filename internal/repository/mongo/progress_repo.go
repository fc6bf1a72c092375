// internal/repository/mongo/progress_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "user_program_progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new UserProgramProgress repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Activate deactivates all other progress rows of the user, then upserts the
// (user, program) row with isActive=true. Callers serialize per user, so the
// two writes observe no interleaving activates for the same user; the partial
// unique index on (userId, isActive) backs the invariant as a last line.
func (r *mongoProgressRepository) Activate(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	now := time.Now().UTC()

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "programId": bson.M{"$ne": programID}, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"userId": userID, "programId": programID}
	update := bson.M{
		"$set":         bson.M{"isActive": true, "updatedAt": now},
		"$setOnInsert": bson.M{"startedAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var progress domain.UserProgramProgress
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetByUserAndProgram retrieves the progress row for a (user, program) pair.
func (r *mongoProgressRepository) GetByUserAndProgram(ctx context.Context, userID, programID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	var progress domain.UserProgramProgress
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "programId": programID}).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// GetActiveByUser retrieves the user's single active progress row.
func (r *mongoProgressRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgramProgress, error) {
	var progress domain.UserProgramProgress
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "isActive": true}).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// SetActive flips the isActive flag on a progress row.
func (r *mongoProgressRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes. The partial unique index
// rejects a second active row per user at the storage layer.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "programId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
