package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/middleware"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
	"github.com/lotusroom/enroll-backend/internal/response"
	"github.com/lotusroom/enroll-backend/internal/service"
	"github.com/lotusroom/enroll-backend/internal/validator"
)

// UserHandler handles the role directory endpoints: admin user management,
// role elevation, and the self-only role probe.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// GET /api/v1/admin/users
// Lists all registered users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// ListInstructors godoc
// GET /api/v1/public/instructors
// Lists all users holding the Instructor role.
func (h *UserHandler) ListInstructors(c *gin.Context) {
	users, err := h.userService.ListInstructors(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"instructors": users})
}

// SetRole godoc
// PATCH /api/v1/admin/users/:id/role
// Changes a user's role. Reached only through the Admin role guard — this
// is the boundary that makes self-elevation impossible.
func (h *UserHandler) SetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// GetRole godoc
// GET /api/v1/users/:email/role
// Self-only role probe. A mismatch between the token identity and the
// queried email is denied outright rather than answered with "false", so
// the endpoint cannot be used to enumerate identities.
func (h *UserHandler) GetRole(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	email := c.Param("email")
	if email != claims.Email {
		response.Fail(c, http.StatusForbidden, response.ErrOwnershipRequired)
		return
	}

	role, err := h.userService.RoleOf(c.Request.Context(), email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"email": email,
		"role":  role,
		"admin": role == model.RoleAdmin,
	})
}
