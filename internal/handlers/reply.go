package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/auth"
	"mail-triage-go/internal/model"
)

// CreateReply records an outbound reply an operator composed. The
// reply is only persisted; no transport sends it anywhere.
func (h *Handlers) CreateReply(c *gin.Context) {
	var req model.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Missing required fields",
			Code:    http.StatusBadRequest,
		})
		return
	}

	reply := model.EmailReply{
		EmailID:   req.EmailID,
		ToAddress: req.ToAddress,
		Body:      req.Body,
	}
	if session := auth.SessionFromContext(c); session != nil {
		reply.CreatedBy = session.Email
	}

	if err := h.replies.Create(c.Request.Context(), &reply); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RepliesRecorded.Inc()
	}
	logrus.WithFields(logrus.Fields{
		"email_id": req.EmailID,
		"to":       req.ToAddress,
	}).Info("Reply recorded")

	c.JSON(http.StatusCreated, reply)
}
