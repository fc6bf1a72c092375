package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a named, ordered collection of workouts a user can follow.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorID     primitive.ObjectID `bson:"creatorId" json:"creatorId"` // User who owns this program
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	IsAiGenerated bool               `bson:"isAiGenerated" json:"isAiGenerated"`

	// Participants follow the program without it driving their progress
	// tracking. Independent of UserProgramProgress.
	ParticipantIDs []primitive.ObjectID `bson:"participantIds,omitempty" json:"participantIds,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
