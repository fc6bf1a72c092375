package service

import (
	"context"
	"errors"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound       = errors.New("client user not found")
	ErrClientNotRole        = errors.New("user found but is not a client")
	ErrClientAlreadyCoached = errors.New("client is already coached by a trainer")
)

// --- Service Interface ---

// CoachingService maintains the trainer-client relationship that gates the
// client-scoped analytics.
type CoachingService interface {
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
}

// --- Service Implementation ---

// coachingService implements the CoachingService interface.
type coachingService struct {
	userRepo repository.UserRepository
}

// NewCoachingService creates a new instance of coachingService.
func NewCoachingService(userRepo repository.UserRepository) CoachingService {
	return &coachingService{userRepo: userRepo}
}

// AddClientByEmail finds a client by email and links them to the trainer.
// Idempotent when the client is already coached by this trainer.
func (s *coachingService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	// 1. Validate input
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	// 2. Find the potential client user
	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 3. Verify the user is actually a client
	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	// 4. Reject when the client already has a different trainer
	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			return client, nil
		}
		return nil, ErrClientAlreadyCoached
	}

	// 5. Link both sides of the relationship
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	return client, nil
}
