package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
)

// Suggest drafts an AI reply for an email and persists it. Calling it
// again for the same email returns the stored suggestion without a
// second generation.
func (h *Handlers) Suggest(c *gin.Context) {
	var req model.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	suggested, err := h.generator.Suggest(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}
		logrus.WithError(err).WithField("email_id", req.ID).Error("Suggestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuggestResponse{Suggested: suggested})
}
