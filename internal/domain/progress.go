package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProgramProgress binds a user to a program they follow. At most one row
// per user has IsActive=true at any instant, system-wide; activating a program
// implicitly deactivates every other row of the same user. Rows are never
// hard-deleted by normal use, deactivation is a state flip.
type UserProgramProgress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	StartedAt time.Time          `bson:"startedAt" json:"startedAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
