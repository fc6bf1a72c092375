// internal/repository/mongo/log_repo.go
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

const logCollectionName = "exercise_logs"

// mongoLogRepository implements repository.LogRepository. Sets are embedded in
// the log document, so every mutation below is a single-document write.
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates a new ExerciseLog repository.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		collection: db.Collection(logCollectionName),
	}
}

// Create inserts a new exercise log with no sets.
func (r *mongoLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if log.SessionID == primitive.NilObjectID || log.WorkoutExerciseID == primitive.NilObjectID || log.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise log requires sessionId, workoutExerciseId, and userId")
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if log.Sets == nil {
		log.Sets = []domain.ExerciseSet{}
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single log by its ID.
func (r *mongoLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetBySessionID retrieves all logs belonging to a session.
func (r *mongoLogRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID})
}

// AppendSet pushes a set and bumps the counter in one write. The filter pins
// the set count the caller observed, so two concurrent appends cannot both
// commit against the same tail.
func (r *mongoLogRepository) AppendSet(ctx context.Context, logID primitive.ObjectID, expectedCount int, set domain.ExerciseSet) error {
	filter := bson.M{"_id": logID, "setsCompleted": expectedCount}
	update := bson.M{
		"$push": bson.M{"sets": set},
		"$inc":  bson.M{"setsCompleted": 1},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.missOrConflict(ctx, logID)
	}
	return nil
}

// DeleteLastSet pops the highest-numbered set and decrements the counter,
// conditional on the observed count. The counter never drops below zero
// because the filter requires at least one set.
func (r *mongoLogRepository) DeleteLastSet(ctx context.Context, logID primitive.ObjectID, expectedCount int) error {
	if expectedCount < 1 {
		return repository.ErrConflict
	}
	filter := bson.M{"_id": logID, "setsCompleted": expectedCount}
	update := bson.M{
		"$pop": bson.M{"sets": 1},
		"$inc": bson.M{"setsCompleted": -1},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.missOrConflict(ctx, logID)
	}
	return nil
}

// missOrConflict distinguishes a missing log from a CAS miss.
func (r *mongoLogRepository) missOrConflict(ctx context.Context, logID primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": logID})
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

// SetVideoKey attaches (or clears, with an empty key) the form-check video
// reference on one embedded set.
func (r *mongoLogRepository) SetVideoKey(ctx context.Context, logID, setID primitive.ObjectID, videoKey string) error {
	filter := bson.M{"_id": logID, "sets.id": setID}
	update := bson.M{"$set": bson.M{"sets.$.videoKey": videoKey}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByUserSince retrieves the user's logs whose session date is >= since.
func (r *mongoLogRepository) GetByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error) {
	filter := bson.M{
		"userId":      userID,
		"sessionDate": bson.M{"$gte": since},
	}
	return r.find(ctx, filter)
}

// GetByUserAndExerciseSince retrieves the user's logs for one exercise whose
// session date is >= since.
func (r *mongoLogRepository) GetByUserAndExerciseSince(ctx context.Context, userID, exerciseID primitive.ObjectID, since time.Time) ([]domain.ExerciseLog, error) {
	filter := bson.M{
		"userId":      userID,
		"exerciseId":  exerciseID,
		"sessionDate": bson.M{"$gte": since},
	}
	return r.find(ctx, filter)
}

func (r *mongoLogRepository) find(ctx context.Context, filter bson.M) ([]domain.ExerciseLog, error) {
	var logs []domain.ExerciseLog
	findOptions := options.Find().SetSort(bson.D{{Key: "sessionDate", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// DistinctWeightedExerciseIDs returns the exercise IDs for which the user has
// logged at least one set with a recorded weight. $elemMatch is required here:
// a bare "sets.weightUsed" $ne filter would demand the condition on every
// array element, so one weightless set would hide an otherwise weighted log.
func (r *mongoLogRepository) DistinctWeightedExerciseIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"userId": userID,
		"sets": bson.M{"$elemMatch": bson.M{
			"weightUsed": bson.M{"$exists": true, "$ne": nil},
		}},
	}
	raw, err := r.collection.Distinct(ctx, "exerciseId", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// EnsureLogIndexes creates necessary indexes. Call during startup.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "sessionDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "sessionDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
