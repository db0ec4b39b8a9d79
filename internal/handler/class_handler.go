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

const popularClassLimit = 6

// ClassHandler handles the class catalog: public listings, instructor
// submissions and the admin review queue.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListApproved godoc
// GET /api/v1/public/classes
// Lists approved classes (the public catalog).
func (h *ClassHandler) ListApproved(c *gin.Context) {
	classes, err := h.classService.ListApproved(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// ListPopular godoc
// GET /api/v1/public/classes/popular
// Lists approved classes ranked by confirmed enrollments.
func (h *ClassHandler) ListPopular(c *gin.Context) {
	classes, err := h.classService.ListPopular(c.Request.Context(), popularClassLimit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/public/classes/:id
// Retrieves a single class.
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/instructor/classes
// Submits a new class for admin review.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), claims.Email, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// ListOwnClasses godoc
// GET /api/v1/instructor/classes
// Lists the authenticated instructor's own classes.
func (h *ClassHandler) ListOwnClasses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classes, err := h.classService.ListByInstructor(c.Request.Context(), claims.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// UpdateClass godoc
// PUT /api/v1/instructor/classes/:id
// Edits an own class. A class owned by someone else reads as not found.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, claims.Email, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// ListAll godoc
// GET /api/v1/admin/classes
// Lists every class regardless of review status.
func (h *ClassHandler) ListAll(c *gin.Context) {
	classes, err := h.classService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// ApproveClass godoc
// PATCH /api/v1/admin/classes/:id/approve
func (h *ClassHandler) ApproveClass(c *gin.Context) {
	h.setApproval(c, func(ctx *gin.Context, id uuid.UUID) error {
		return h.classService.Approve(ctx.Request.Context(), id)
	})
}

// DenyClass godoc
// PATCH /api/v1/admin/classes/:id/deny
func (h *ClassHandler) DenyClass(c *gin.Context) {
	h.setApproval(c, func(ctx *gin.Context, id uuid.UUID) error {
		return h.classService.Deny(ctx.Request.Context(), id)
	})
}

// SetFeedback godoc
// PUT /api/v1/admin/classes/:id/feedback
// Leaves review feedback on a class.
func (h *ClassHandler) SetFeedback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.FeedbackRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classService.SetFeedback(c.Request.Context(), id, req.Feedback); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func (h *ClassHandler) setApproval(c *gin.Context, apply func(*gin.Context, uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := apply(c, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
