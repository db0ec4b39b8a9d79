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

// EnrollmentHandler handles the student selection ledger. Every route is
// scoped to the authenticated student's own records.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// SelectClass godoc
// POST /api/v1/student/selections
// Creates a pending selection of an approved class at today's price.
func (h *EnrollmentHandler) SelectClass(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SelectClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Select(c.Request.Context(), claims.Email, req.ClassID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateSelection)
		case errors.Is(err, service.ErrClassNotApproved):
			response.Fail(c, http.StatusConflict, response.ErrClassNotApproved)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"selection": enrollment})
}

// ListSelections godoc
// GET /api/v1/student/selections
// Lists the student's own selections, pending and paid.
func (h *EnrollmentHandler) ListSelections(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.enrollmentService.ListByStudent(c.Request.Context(), claims.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"selections": enrollments})
}

// ListEnrolled godoc
// GET /api/v1/student/enrollments
// Lists the student's own confirmed (paid) enrollments.
func (h *EnrollmentHandler) ListEnrolled(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.enrollmentService.ListPaidByStudent(c.Request.Context(), claims.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// Withdraw godoc
// DELETE /api/v1/student/selections/:id
// Deletes an own pending selection. Paid enrollments report 409 rather than
// silently no-op.
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
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

	if err := h.enrollmentService.Withdraw(c.Request.Context(), claims.Email, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotOwner):
			response.Fail(c, http.StatusForbidden, response.ErrOwnershipRequired)
		case errors.Is(err, repository.ErrAlreadyPaid):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyPaid)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
