// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the library.
// Library exercises have no creator; user-created ones carry the creator's ID.
type Exercise struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatorID *primitive.ObjectID `bson:"creatorId,omitempty" json:"creatorId,omitempty"` // nil for the shared library
	Name      string              `bson:"name" json:"name"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g., "Novice", "Medium", "Advanced"

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
