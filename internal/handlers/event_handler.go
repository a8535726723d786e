package handlers

import (
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/validator"

	"github.com/gin-gonic/gin"
)

// EventHandler covers event registration and the quiz-room access gate.
type EventHandler struct {
	access *service.AccessService
}

func NewEventHandler(access *service.AccessService) *EventHandler {
	return &EventHandler{access: access}
}

func (h *EventHandler) RegisterTeam(c *gin.Context) {
	var req dto.RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	team := req.ToModel()
	team.LeadMailID = validator.NormalizeEmail(team.LeadMailID)

	if err := h.access.RegisterTeam(c.Request.Context(), team); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Success: true,
		Message: "Team registered successfully",
	})
}

func (h *EventHandler) RequestAccess(c *gin.Context) {
	var req dto.RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := validator.NormalizeEmail(req.Email)
	if err := h.access.RequestAccess(c.Request.Context(), email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Access code sent to the team leader's email",
	})
}

func (h *EventHandler) RedeemAccess(c *gin.Context) {
	var req dto.VerifyAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	team, err := h.access.RedeemAccess(c.Request.Context(), req.Code)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyAccessResponse{
		Success:    true,
		TeamName:   team.TeamName,
		LeadMailID: team.LeadMailID,
	})
}
