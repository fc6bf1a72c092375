package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a named, ordered collection of planned exercises. It usually
// belongs to a Program but can exist on its own (ad-hoc and AI-generated
// workouts start unattached).
type Workout struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProgramID     *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"` // nil for standalone workouts
	CreatorID     primitive.ObjectID  `bson:"creatorId" json:"creatorId"`
	Name          string              `bson:"name" json:"name"`
	Order         int                 `bson:"order" json:"order"` // Display/execution sequence within the program
	IsAiGenerated bool                `bson:"isAiGenerated" json:"isAiGenerated"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
	// Planned exercises are linked via WorkoutExercise documents pointing to
	// THIS Workout's ID.
}
