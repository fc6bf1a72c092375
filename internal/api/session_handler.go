package api

import (
	"errors"
	"net/http"

	"ptapp/coaching-backend/internal/domain"
	"ptapp/coaching-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler exposes execution-side endpoints: program activation, the
// workout session lifecycle and per-exercise set logging.
type SessionHandler struct {
	progressService service.ProgressService
	sessionService  service.SessionService
	logService      service.LogService
}

func NewSessionHandler(progressService service.ProgressService, sessionService service.SessionService, logService service.LogService) *SessionHandler {
	return &SessionHandler{
		progressService: progressService,
		sessionService:  sessionService,
		logService:      logService,
	}
}

// --- Request/Response Structs ---

type StartSessionRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

type CreateLogRequest struct {
	ExerciseName string `json:"exerciseName" binding:"required"`
}

type AppendSetRequest struct {
	Reps   *int     `json:"reps" binding:"omitempty,min=0"`
	Weight *float64 `json:"weight" binding:"omitempty,min=0"`
}

type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type ActiveSessionResponse struct {
	Active  bool                   `json:"active"`
	Session *domain.WorkoutSession `json:"session,omitempty"`
}

// --- Program activation ---

func (h *SessionHandler) ActivateProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	progress, err := h.progressService.ActivateProgram(c.Request.Context(), userID, programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to activate program.")
		}
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *SessionHandler) DeactivateProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	err := h.progressService.DeactivateProgram(c.Request.Context(), userID, programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) || errors.Is(err, service.ErrProgressNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrProgramInactive) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to deactivate program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) GetActiveProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetActiveProgram(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveProgram) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve active program.")
		}
		return
	}
	c.JSON(http.StatusOK, progress)
}

// --- Session lifecycle ---

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), userID, workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionConflict):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoActiveProgram):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start session.")
		}
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CheckActiveSession reports whether the caller has a session in flight.
// No active session is a normal state, not an error.
func (h *SessionHandler) CheckActiveSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.CheckActiveSession(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check active session.")
		return
	}
	c.JSON(http.StatusOK, ActiveSessionResponse{
		Active:  session != nil,
		Session: session,
	})
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	err := h.sessionService.EndSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrSessionCompleted) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to end session.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve session.")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetMySessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.GetUserSessions(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions.")
		return
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// --- Exercise logs and sets ---

func (h *SessionHandler) CreateExerciseLog(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log, err := h.logService.CreateExerciseLog(c.Request.Context(), sessionID, req.ExerciseName)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise log.")
		}
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *SessionHandler) GetSessionLogs(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	logs, err := h.logService.GetSessionLogs(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise logs.")
		}
		return
	}
	if logs == nil {
		logs = []domain.ExerciseLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *SessionHandler) AppendSet(c *gin.Context) {
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}

	var req AppendSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	set, err := h.logService.AppendSet(c.Request.Context(), logID, req.Reps, req.Weight)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrSetAppendConflict) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record set.")
		}
		return
	}
	c.JSON(http.StatusCreated, set)
}

// DeleteLastSet undoes the most recent set, but only while the log holds more
// sets than the plan calls for.
func (h *SessionHandler) DeleteLastSet(c *gin.Context) {
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}

	err := h.logService.DeleteLastSet(c.Request.Context(), logID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoSetsToDelete), errors.Is(err, service.ErrSetCountWithinPlan):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete set.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Form-check videos ---

func (h *SessionHandler) RequestSetVideoUploadURL(c *gin.Context) {
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}
	setID, ok := pathObjectID(c, "setId")
	if !ok {
		return
	}

	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.logService.RequestSetVideoUploadURL(c.Request.Context(), logID, setID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound), errors.Is(err, service.ErrSetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVideoUploadURL):
			abortWithError(c, http.StatusInternalServerError, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to get upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) ConfirmSetVideo(c *gin.Context) {
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}
	setID, ok := pathObjectID(c, "setId")
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err := h.logService.ConfirmSetVideo(c.Request.Context(), logID, setID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) || errors.Is(err, service.ErrSetNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) DeleteSetVideo(c *gin.Context) {
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}
	setID, ok := pathObjectID(c, "setId")
	if !ok {
		return
	}

	err := h.logService.DeleteSetVideo(c.Request.Context(), logID, setID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound), errors.Is(err, service.ErrSetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVideoMissing):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete video.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
