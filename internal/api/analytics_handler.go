package api

import (
	"errors"
	"net/http"
	"time"

	"ptapp/coaching-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default window for the weekly sessions chart when the caller does not pass
// explicit bounds.
const defaultWeeklyWindowDays = 77 // 11 weeks

// AnalyticsHandler exposes the read-only progress charts, both self-scoped
// and (for trainers) client-scoped.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// weeklyRange reads optional start/end query params ("2006-01-02"), falling
// back to the trailing default window. Start after end is a 400.
func weeklyRange(c *gin.Context) (start, end time.Time, ok bool) {
	end = time.Now().UTC()
	start = end.AddDate(0, 0, -defaultWeeklyWindowDays)

	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD.")
			return start, end, false
		}
		start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD.")
			return start, end, false
		}
		end = t
	}
	if start.After(end) {
		abortWithError(c, http.StatusBadRequest, "Start date must not be after end date.")
		return start, end, false
	}
	return start, end, true
}

// --- Self-scoped charts ---

func (h *AnalyticsHandler) GetWeeklySessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	start, end, ok := weeklyRange(c)
	if !ok {
		return
	}

	counts, err := h.analyticsService.WeeklySessionCounts(c.Request.Context(), userID, start, end)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute weekly sessions.")
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *AnalyticsHandler) GetOneRepMax(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	points, err := h.analyticsService.EstimatedOneRepMax(c.Request.Context(), userID, exerciseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute one-rep max.")
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *AnalyticsHandler) GetTonnage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	points, err := h.analyticsService.CumulativeTonnage(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute tonnage.")
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *AnalyticsHandler) GetExercisesWithWeights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	exercises, err := h.analyticsService.ExercisesWithWeights(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// --- Client-scoped charts (trainer only) ---

func (h *AnalyticsHandler) clientScope(c *gin.Context) (trainerID, clientID primitive.ObjectID, ok bool) {
	trainerID, ok = currentUserID(c)
	if !ok {
		return
	}
	clientID, ok = pathObjectID(c, "clientId")
	return
}

func (h *AnalyticsHandler) GetClientWeeklySessions(c *gin.Context) {
	trainerID, clientID, ok := h.clientScope(c)
	if !ok {
		return
	}
	start, end, ok := weeklyRange(c)
	if !ok {
		return
	}

	counts, err := h.analyticsService.ClientWeeklySessionCounts(c.Request.Context(), trainerID, clientID, start, end)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute weekly sessions.")
		}
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *AnalyticsHandler) GetClientOneRepMax(c *gin.Context) {
	trainerID, clientID, ok := h.clientScope(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	points, err := h.analyticsService.ClientEstimatedOneRepMax(c.Request.Context(), trainerID, clientID, exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute one-rep max.")
		}
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *AnalyticsHandler) GetClientTonnage(c *gin.Context) {
	trainerID, clientID, ok := h.clientScope(c)
	if !ok {
		return
	}

	points, err := h.analyticsService.ClientCumulativeTonnage(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute tonnage.")
		}
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *AnalyticsHandler) GetClientExercisesWithWeights(c *gin.Context) {
	trainerID, clientID, ok := h.clientScope(c)
	if !ok {
		return
	}

	exercises, err := h.analyticsService.ClientExercisesWithWeights(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		}
		return
	}
	c.JSON(http.StatusOK, exercises)
}
