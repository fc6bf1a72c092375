package api

import (
	"context"
	"errors"
	"net/http"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler exposes program authoring: programs, workouts, planned
// exercises, ordering and participants, plus the AI generation endpoints.
type ProgramHandler struct {
	programService    service.ProgramService
	suggestionService service.SuggestionService
}

func NewProgramHandler(programService service.ProgramService, suggestionService service.SuggestionService) *ProgramHandler {
	return &ProgramHandler{
		programService:    programService,
		suggestionService: suggestionService,
	}
}

// --- Request/Response Structs ---

type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateWorkoutRequest struct {
	Name      string  `json:"name" binding:"required"`
	ProgramID *string `json:"programId"` // Omit for a standalone workout
	Order     int     `json:"order" binding:"min=0"`
}

type AddWorkoutExerciseRequest struct {
	ExerciseName string `json:"exerciseName" binding:"required"`
	Sets         int    `json:"sets" binding:"min=0"`
	Reps         int    `json:"reps" binding:"min=0"`
	Order        int    `json:"order" binding:"min=0"`
	Note         string `json:"note"`
}

type OrderUpdateRequest struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order" binding:"min=0"`
}

type BatchOrderRequest struct {
	Updates []OrderUpdateRequest `json:"updates" binding:"required,min=1,dive"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type QuotaResponse struct {
	Remaining int `json:"remaining"`
}

// --- Programs ---

func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create program.")
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) GetMyPrograms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	programs, err := h.programService.GetUserPrograms(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve program.")
		}
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	err := h.programService.DeleteProgram(c.Request.Context(), userID, programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrProgramAccessDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Workouts ---

func (h *ProgramHandler) CreateWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var programID *primitive.ObjectID
	if req.ProgramID != nil && *req.ProgramID != "" {
		id, err := primitive.ObjectIDFromHex(*req.ProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
			return
		}
		programID = &id
	}

	workout, err := h.programService.CreateWorkout(c.Request.Context(), userID, programID, req.Name, req.Order)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *ProgramHandler) GetProgramWorkouts(c *gin.Context) {
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	workouts, err := h.programService.GetProgramWorkouts(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		}
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// --- Planned exercises ---

func (h *ProgramHandler) AddWorkoutExercise(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}

	var req AddWorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	we, err := h.programService.AddWorkoutExercise(c.Request.Context(), workoutID, req.ExerciseName, req.Sets, req.Reps, req.Order, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add exercise to workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, we)
}

func (h *ProgramHandler) GetWorkoutExercises(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}

	exercises, err := h.programService.GetWorkoutExercises(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout exercises.")
		}
		return
	}
	if exercises == nil {
		exercises = []domain.WorkoutExercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// --- Ordering ---

// UpdateWorkoutOrder applies a batch of order changes. Failures are reported
// per item; valid items still commit, and a mixed result returns 207.
func (h *ProgramHandler) UpdateWorkoutOrder(c *gin.Context) {
	h.updateOrder(c, h.programService.UpdateWorkoutOrder)
}

func (h *ProgramHandler) UpdateExerciseOrder(c *gin.Context) {
	h.updateOrder(c, h.programService.UpdateExerciseOrder)
}

func (h *ProgramHandler) updateOrder(c *gin.Context, apply func(ctx context.Context, updates []service.OrderUpdate) (*service.BatchOrderResult, error)) {
	var req BatchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updates := make([]service.OrderUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		id, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid ID in updates: "+u.ID)
			return
		}
		updates = append(updates, service.OrderUpdate{ID: id, Order: u.Order})
	}

	result, err := apply(c.Request.Context(), updates)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update order.")
		return
	}

	status := http.StatusOK
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

// --- Participants ---

func (h *ProgramHandler) JoinProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	err := h.programService.AddParticipant(c.Request.Context(), programID, userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to join program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) LeaveProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	err := h.programService.RemoveParticipant(c.Request.Context(), programID, userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrNotParticipant) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to leave program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) GetParticipatingPrograms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	programs, err := h.programService.GetParticipatingPrograms(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// --- AI generation ---

func (h *ProgramHandler) GenerateWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.suggestionService.GenerateWorkout(c.Request.Context(), userID, programID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAiWorkoutLimit):
			abortWithError(c, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, service.ErrAiUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrEmptyPrompt):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate workout.")
		}
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *ProgramHandler) GenerateProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	program, err := h.suggestionService.GenerateProgram(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAiProgramLimit):
			abortWithError(c, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, service.ErrAiUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrEmptyPrompt):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate program.")
		}
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) GetWorkoutQuota(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	remaining, err := h.suggestionService.RemainingWorkoutQuota(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check quota.")
		return
	}
	c.JSON(http.StatusOK, QuotaResponse{Remaining: remaining})
}

func (h *ProgramHandler) GetProgramQuota(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	remaining, err := h.suggestionService.RemainingProgramQuota(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check quota.")
		return
	}
	c.JSON(http.StatusOK, QuotaResponse{Remaining: remaining})
}
