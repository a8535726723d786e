package handlers

import (
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// SendEmail queues a notification email; delivery is asynchronous.
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.notifications.Notify(c.Request.Context(), req.To, req.Subject, req.Content); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.SuccessResponse{
		Success: true,
		Message: "Notification queued",
	})
}
