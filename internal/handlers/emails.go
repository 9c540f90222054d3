package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
	"mail-triage-go/internal/triage"
)

// defaultListLimit bounds how many rows a single dashboard load pulls
const defaultListLimit = 100

// ListEmails returns the triage view: rows restricted by category and
// search, ordered newest-first, with per-status counts derived over
// the loaded set before the status filter is applied.
func (h *Handlers) ListEmails(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := h.emails.List(c.Request.Context(), limit)
	if err != nil {
		// A failed load degrades to an explicit error, never partial data.
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	loaded := triage.Filter(rows, c.Query("category"), c.Query("q"))
	counts := triage.Counts(loaded)
	visible := triage.SortNewestFirst(triage.FilterStatus(loaded, c.Query("status")))

	c.JSON(http.StatusOK, model.EmailListResponse{
		Emails: visible,
		Counts: counts,
	})
}

// CreateEmail inserts an email row manually, the operator
// test-insertion path.
func (h *Handlers) CreateEmail(c *gin.Context) {
	var req model.CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !model.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Unknown category",
			Code:    http.StatusBadRequest,
		})
		return
	}

	email := model.Email{
		ReceivedAt: req.ReceivedAt,
		FromEmail:  req.FromEmail,
		Sender:     req.Sender,
		Subject:    req.Subject,
		Snippet:    req.Snippet,
		Category:   req.Category,
	}
	if err := h.emails.Create(c.Request.Context(), &email); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	logrus.WithField("email_id", email.ID).Info("Email created")
	c.JSON(http.StatusCreated, email)
}

// UpdateEmailStatus transitions an email between open and completed.
// The response carries the row as re-read from the store.
func (h *Handlers) UpdateEmailStatus(c *gin.Context) {
	var req model.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	email, err := h.triage.MarkStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.renderTriageError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// DismissSuggestion clears the suggestion fields of an email
func (h *Handlers) DismissSuggestion(c *gin.Context) {
	email, err := h.triage.DismissSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderTriageError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// AcceptSuggestion marks an email completed, keeping the suggestion
func (h *Handlers) AcceptSuggestion(c *gin.Context) {
	email, err := h.triage.AcceptSuggestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderTriageError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

// renderTriageError maps triage service errors onto the response
// taxonomy. Store failure messages are reported verbatim; the row's
// prior state is untouched by then.
func (h *Handlers) renderTriageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, triage.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, repository.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "Email not found",
			Code:    http.StatusNotFound,
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
}
