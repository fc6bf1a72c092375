package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSession is one timed execution of a Workout under a user's program
// progress. Lifecycle: created active=true,completed=false, ended
// active=false,completed=true. A completed session is never reopened, and at
// most one session per user is active at any instant.
type WorkoutSession struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgressID primitive.ObjectID `bson:"progressId" json:"progressId"` // Parent UserProgramProgress
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`         // Denormalized for per-user queries/auth
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Date       time.Time          `bson:"date" json:"date"` // Creation timestamp, UTC
	Active     bool               `bson:"active" json:"active"`
	Completed  bool               `bson:"completed" json:"completed"`
}

// ExerciseLog records the execution of one planned exercise within a session.
// Completed sets are embedded so that append/undo and the set counter commit
// in a single document write.
type ExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID         primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	WorkoutExerciseID primitive.ObjectID `bson:"workoutExerciseId" json:"workoutExerciseId"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`         // Denormalized
	ExerciseID        primitive.ObjectID `bson:"exerciseId" json:"exerciseId"` // Denormalized
	SessionDate       time.Time          `bson:"sessionDate" json:"sessionDate"`
	SetsCompleted     int                `bson:"setsCompleted" json:"setsCompleted"` // Tracks len(Sets), never below 0
	Sets              []ExerciseSet      `bson:"sets" json:"sets"`                   // Ordered by SetNumber
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// ExerciseSet is one completed set within an ExerciseLog. Reps and Weight are
// optional, the user may log a set without either. Set numbers are 1-based and
// strictly increasing within the log.
type ExerciseSet struct {
	ID        primitive.ObjectID `bson:"id" json:"id"`
	SetNumber int                `bson:"setNumber" json:"setNumber"`
	Reps      *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight    *float64           `bson:"weightUsed,omitempty" json:"weightUsed,omitempty"`
	VideoKey  string             `bson:"videoKey,omitempty" json:"videoKey,omitempty"` // Object key of the form-check video, if uploaded
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// LastSet returns the highest-numbered set in the log, or nil if none.
func (l *ExerciseLog) LastSet() *ExerciseSet {
	if len(l.Sets) == 0 {
		return nil
	}
	return &l.Sets[len(l.Sets)-1]
}

// NextSetNumber derives the number for the next appended set from the last
// surviving set, so a tail delete followed by an append reuses the vacated
// number.
func (l *ExerciseLog) NextSetNumber() int {
	if last := l.LastSet(); last != nil {
		return last.SetNumber + 1
	}
	return 1
}
