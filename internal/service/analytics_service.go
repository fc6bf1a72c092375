package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ptapp/coaching-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotManaged = errors.New("client not found or not coached by this trainer")
)

// Trailing windows for the chart endpoints.
const (
	oneRepMaxWindowDays = 180
	tonnageWindowDays   = 7
)

// WeekCount is one weekly bucket of completed sessions.
type WeekCount struct {
	Week  string `json:"week"` // ISO year-week key, e.g. "2026-W05"
	Count int    `json:"workouts"`
}

// OneRepMaxPoint is the best estimated single-rep lift for one day.
type OneRepMaxPoint struct {
	Day   string  `json:"day"` // "2006-01-02"
	OneRM float64 `json:"oneRm"`
}

// TonnagePoint is the total weight moved on one day.
type TonnagePoint struct {
	Date  string  `json:"date"` // "2006-01-02"
	Total float64 `json:"totalWeightLifted"`
}

// ExerciseRef identifies an exercise in chart pickers.
type ExerciseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// --- Service Interface ---

// AnalyticsService computes read-only views over the execution log. All
// methods aggregate historical data only and take no locks; the client-scoped
// variants additionally require an active trainer-client relationship.
type AnalyticsService interface {
	WeeklySessionCounts(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]WeekCount, error)
	EstimatedOneRepMax(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]OneRepMaxPoint, error)
	CumulativeTonnage(ctx context.Context, userID primitive.ObjectID) ([]TonnagePoint, error)
	ExercisesWithWeights(ctx context.Context, userID primitive.ObjectID) ([]ExerciseRef, error)

	ClientWeeklySessionCounts(ctx context.Context, trainerID, clientID primitive.ObjectID, start, end time.Time) ([]WeekCount, error)
	ClientEstimatedOneRepMax(ctx context.Context, trainerID, clientID, exerciseID primitive.ObjectID) ([]OneRepMaxPoint, error)
	ClientCumulativeTonnage(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]TonnagePoint, error)
	ClientExercisesWithWeights(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]ExerciseRef, error)
}

// --- Service Implementation ---

// analyticsService implements the AnalyticsService interface.
type analyticsService struct {
	sessionRepo  repository.SessionRepository
	logRepo      repository.LogRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
}

// NewAnalyticsService creates a new instance of analyticsService.
func NewAnalyticsService(
	sessionRepo repository.SessionRepository,
	logRepo repository.LogRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
) AnalyticsService {
	return &analyticsService{
		sessionRepo:  sessionRepo,
		logRepo:      logRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
	}
}

// weekKey buckets a timestamp into a deterministic UTC ISO year-week key.
// Independent of locale and server timezone.
func weekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// dayKey buckets a timestamp into its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// epley estimates a one-rep max from one set, rounded to one decimal place.
func epley(weight float64, reps int) float64 {
	return math.Round(weight*(1+float64(reps)/30.0)*10) / 10
}

// WeeklySessionCounts buckets the user's sessions in [start, end] by ISO
// week. Buckets are dense: weeks without sessions appear with count zero, in
// chronological order.
func (s *analyticsService) WeeklySessionCounts(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]WeekCount, error) {
	sessions, err := s.sessionRepo.GetByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	// Dense week axis: step through the window in 7-day strides, then make
	// sure the end week itself is present.
	var keys []string
	seen := make(map[string]int)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		key := weekKey(cur)
		if _, ok := seen[key]; !ok {
			seen[key] = 0
			keys = append(keys, key)
		}
	}
	endKey := weekKey(end)
	if _, ok := seen[endKey]; !ok {
		seen[endKey] = 0
		keys = append(keys, endKey)
	}

	for _, session := range sessions {
		key := weekKey(session.Date)
		if _, ok := seen[key]; ok {
			seen[key]++
		}
	}

	counts := make([]WeekCount, len(keys))
	for i, key := range keys {
		counts[i] = WeekCount{Week: key, Count: seen[key]}
	}
	return counts, nil
}

// EstimatedOneRepMax computes the user's per-day best Epley estimate for one
// exercise over the trailing 180 days. Sets missing reps or weight are
// skipped; days keep their maximum; points are chronological.
func (s *analyticsService) EstimatedOneRepMax(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]OneRepMaxPoint, error) {
	since := time.Now().UTC().AddDate(0, 0, -oneRepMaxWindowDays)
	logs, err := s.logRepo.GetByUserAndExerciseSince(ctx, userID, exerciseID, since)
	if err != nil {
		return nil, err
	}

	best := make(map[string]float64)
	var days []string
	for _, log := range logs {
		day := dayKey(log.SessionDate)
		for _, set := range log.Sets {
			if set.Reps == nil || set.Weight == nil {
				continue
			}
			oneRM := epley(*set.Weight, *set.Reps)
			if prev, ok := best[day]; !ok {
				best[day] = oneRM
				days = append(days, day)
			} else if oneRM > prev {
				best[day] = oneRM
			}
		}
	}

	// Logs arrive sorted by session date, so the day list is already
	// chronological.
	points := make([]OneRepMaxPoint, len(days))
	for i, day := range days {
		points[i] = OneRepMaxPoint{Day: day, OneRM: best[day]}
	}
	return points, nil
}

// CumulativeTonnage sums weight*reps per day over the trailing 7 days
// including today. Days without sets report zero.
func (s *analyticsService) CumulativeTonnage(ctx context.Context, userID primitive.ObjectID) ([]TonnagePoint, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(tonnageWindowDays - 1))

	logs, err := s.logRepo.GetByUserSince(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, tonnageWindowDays)
	keys := make([]string, 0, tonnageWindowDays)
	for d := 0; d < tonnageWindowDays; d++ {
		key := dayKey(start.AddDate(0, 0, d))
		totals[key] = 0
		keys = append(keys, key)
	}

	for _, log := range logs {
		key := dayKey(log.SessionDate)
		if _, ok := totals[key]; !ok {
			continue
		}
		for _, set := range log.Sets {
			if set.Reps == nil || set.Weight == nil {
				continue
			}
			totals[key] += *set.Weight * float64(*set.Reps)
		}
	}

	points := make([]TonnagePoint, len(keys))
	for i, key := range keys {
		points[i] = TonnagePoint{Date: key, Total: totals[key]}
	}
	return points, nil
}

// ExercisesWithWeights lists the distinct exercises for which the user has
// logged at least one set with a recorded weight.
func (s *analyticsService) ExercisesWithWeights(ctx context.Context, userID primitive.ObjectID) ([]ExerciseRef, error) {
	ids, err := s.logRepo.DistinctWeightedExerciseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	refs := make([]ExerciseRef, len(exercises))
	for i, ex := range exercises {
		refs[i] = ExerciseRef{ID: ex.ID.Hex(), Name: ex.Name}
	}
	return refs, nil
}

// === Client-scoped variants (trainer dashboards) ===

// authorizeClient verifies the trainer actively coaches the client.
func (s *analyticsService) authorizeClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotManaged
		}
		return err
	}
	if !trainer.Coaches(clientID) {
		return ErrClientNotManaged
	}
	return nil
}

func (s *analyticsService) ClientWeeklySessionCounts(ctx context.Context, trainerID, clientID primitive.ObjectID, start, end time.Time) ([]WeekCount, error) {
	if err := s.authorizeClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.WeeklySessionCounts(ctx, clientID, start, end)
}

func (s *analyticsService) ClientEstimatedOneRepMax(ctx context.Context, trainerID, clientID, exerciseID primitive.ObjectID) ([]OneRepMaxPoint, error) {
	if err := s.authorizeClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.EstimatedOneRepMax(ctx, clientID, exerciseID)
}

func (s *analyticsService) ClientCumulativeTonnage(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]TonnagePoint, error) {
	if err := s.authorizeClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.CumulativeTonnage(ctx, clientID)
}

func (s *analyticsService) ClientExercisesWithWeights(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]ExerciseRef, error) {
	if err := s.authorizeClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.ExercisesWithWeights(ctx, clientID)
}
