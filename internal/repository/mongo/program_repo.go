// internal/repository/mongo/program_repo.go
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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.CreatorID == primitive.NilObjectID || program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires creatorId and name")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByCreatorID retrieves all programs owned by a user.
func (r *mongoProgramRepository) GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"creatorId": creatorID})
}

// GetByParticipantID retrieves all programs a user participates in.
func (r *mongoProgramRepository) GetByParticipantID(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"participantIds": userID})
}

func (r *mongoProgramRepository) find(ctx context.Context, filter bson.M) ([]domain.Program, error) {
	var programs []domain.Program
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// AddParticipant adds a user to the program's participant list (idempotent).
func (r *mongoProgramRepository) AddParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": programID},
		bson.M{
			"$addToSet": bson.M{"participantIds": userID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveParticipant removes a user from the program's participant list.
// Returns ErrNotFound when the user was not a participant.
func (r *mongoProgramRepository) RemoveParticipant(ctx context.Context, programID, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": programID, "participantIds": userID},
		bson.M{
			"$pull": bson.M{"participantIds": userID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program. The filter ensures the program exists AND belongs
// to the given creator.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "creatorId": creatorID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountAiGeneratedInRange counts the user's AI-generated programs created
// within [from, to]. Backs the weekly suggestion quota.
func (r *mongoProgramRepository) CountAiGeneratedInRange(ctx context.Context, creatorID primitive.ObjectID, from, to time.Time) (int64, error) {
	filter := bson.M{
		"creatorId":     creatorID,
		"isAiGenerated": true,
		"createdAt":     bson.M{"$gte": from, "$lte": to},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creatorId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "participantIds", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
