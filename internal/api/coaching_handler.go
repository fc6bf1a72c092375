package api

import (
	"errors"
	"net/http"

	"ptapp/coaching-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CoachingHandler manages the trainer-client relationship.
type CoachingHandler struct {
	coachingService service.CoachingService
}

func NewCoachingHandler(coachingService service.CoachingService) *CoachingHandler {
	return &CoachingHandler{coachingService: coachingService}
}

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AddClient links an existing client account to the authenticated trainer.
func (h *CoachingHandler) AddClient(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.coachingService.AddClientByEmail(c.Request.Context(), trainerID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyCoached):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}
