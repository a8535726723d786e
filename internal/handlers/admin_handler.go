package handlers

import (
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler backs the admin console: club roster and the email blocklist.
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) AddMember(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.admin.AddMember(c.Request.Context(), req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMember(member))
}

func (h *AdminHandler) ListMembers(c *gin.Context) {
	members, err := h.admin.ListMembers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMembers(members))
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	var req dto.BlockEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.admin.BlockEmail(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Email blocked",
	})
}

func (h *AdminHandler) UnblockUser(c *gin.Context) {
	var req dto.BlockEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.admin.UnblockEmail(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Email unblocked",
	})
}
