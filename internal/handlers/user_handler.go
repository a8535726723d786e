package handlers

import (
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/middleware"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"
	authjwt "github.com/inquizitive-iiitdwd/inquizitive.web/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.UserName, req.PhoneNumber)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.LoginResponse{
		Success: true,
		User:    dto.FromUser(user),
		Message: "Verification link sent to your email",
	})
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		dto.JsonError(c, http.StatusBadRequest, "Missing verification token")
		return
	}

	if err := h.users.VerifyEmail(c.Request.Context(), token); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Email verified successfully",
	})
}

func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.ResendVerification(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Verification link sent to your email",
	})
}

// Login signs a participant in. Admins and organizers have their own portals.
func (h *UserHandler) Login(c *gin.Context) {
	h.login(c, models.RoleParticipant)
}

// OrganizerLogin backs the organizer portal; the session lasts a full day so
// a quiz event is never interrupted by an expiring cookie.
func (h *UserHandler) OrganizerLogin(c *gin.Context) {
	h.login(c, models.RoleOrganizer)
}

// AdminLogin backs the admin console.
func (h *UserHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

func (h *UserHandler) login(c *gin.Context, portalRole string) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password, portalRole)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	maxAge := int(authjwt.SessionTokenDuration.Seconds())
	if user.Role == models.RoleOrganizer {
		maxAge = int(authjwt.OrganizerSessionDuration.Seconds())
	}
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		User:    dto.FromUser(user),
		Message: "Login successful",
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString("session_token")

	if err := h.users.Logout(c.Request.Context(), token); err != nil {
		handleServiceError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// ReadToken lets the frontend ask who the cookie belongs to.
func (h *UserHandler) ReadToken(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		dto.JsonError(c, http.StatusUnauthorized, "No active session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": c.GetString("user_id"),
		"email":   c.GetString("email"),
		"role":    role,
	})
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "If an account with that email exists, a reset link has been sent",
	})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(),
		c.GetString("user_id"), req.UserName, req.PhoneNumber, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Missing avatar file")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		dto.JsonError(c, http.StatusBadRequest, "Avatar must be smaller than 5 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Failed to read avatar file")
		return
	}
	defer file.Close()

	url, err := h.users.UploadAvatar(c.Request.Context(),
		c.GetString("user_id"), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvatarResponse{
		Success:   true,
		AvatarURL: url,
	})
}
