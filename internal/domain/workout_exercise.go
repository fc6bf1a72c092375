package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutExercise is a planned exercise within a Workout: which exercise to
// perform and the target set/rep counts. The planned Sets value bounds how far
// the execution log may be trimmed back (see LogService.DeleteLastSet).
type WorkoutExercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"` // Denormalized for display without a second lookup
	Sets         int                `bson:"sets" json:"sets"`                 // Planned set count, >= 0
	Reps         int                `bson:"reps" json:"reps"`                 // Planned reps per set, >= 0
	Order        int                `bson:"order" json:"order"`
	Note         string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
