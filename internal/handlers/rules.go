package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
)

// GetRules returns all faq rules in evaluation order
func (h *Handlers) GetRules(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch rules",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, rules)
}

// CreateRule creates a new faq rule
func (h *Handlers) CreateRule(c *gin.Context) {
	var req model.FaqRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pattern := strings.TrimSpace(req.Pattern)
	answer := strings.TrimSpace(req.Answer)
	if pattern == "" || answer == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Both a pattern and an answer are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	priority := model.DefaultRulePriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := model.FaqRule{
		Pattern:  pattern,
		Answer:   answer,
		Priority: priority,
		IsActive: isActive,
	}
	if err := h.rules.Create(c.Request.Context(), &rule); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// GetRule returns a single rule
func (h *Handlers) GetRule(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	rule, err := h.rules.Get(c.Request.Context(), id)
	if err != nil {
		h.renderRuleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// UpdateRule patches an existing rule
func (h *Handlers) UpdateRule(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	var req model.FaqRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pattern := strings.TrimSpace(req.Pattern)
	answer := strings.TrimSpace(req.Answer)
	if pattern == "" || answer == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Both a pattern and an answer are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if _, err := h.rules.Get(c.Request.Context(), id); err != nil {
		h.renderRuleError(c, err)
		return
	}

	updates := map[string]interface{}{
		"pattern": pattern,
		"answer":  answer,
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.rules.Update(c.Request.Context(), id, updates); err != nil {
		h.renderRuleError(c, err)
		return
	}

	rule, err := h.rules.Get(c.Request.Context(), id)
	if err != nil {
		h.renderRuleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeleteRule removes a rule
func (h *Handlers) DeleteRule(c *gin.Context) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	if _, err := h.rules.Get(c.Request.Context(), id); err != nil {
		h.renderRuleError(c, err)
		return
	}

	if err := h.rules.Delete(c.Request.Context(), id); err != nil {
		h.renderRuleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// EnableRule includes a rule in matching
func (h *Handlers) EnableRule(c *gin.Context) {
	h.setRuleActive(c, true)
}

// DisableRule excludes a rule from matching
func (h *Handlers) DisableRule(c *gin.Context) {
	h.setRuleActive(c, false)
}

func (h *Handlers) setRuleActive(c *gin.Context, active bool) {
	id, ok := h.ruleID(c)
	if !ok {
		return
	}

	if _, err := h.rules.Get(c.Request.Context(), id); err != nil {
		h.renderRuleError(c, err)
		return
	}

	if err := h.rules.SetActive(c.Request.Context(), id, active); err != nil {
		h.renderRuleError(c, err)
		return
	}

	rule, err := h.rules.Get(c.Request.Context(), id)
	if err != nil {
		h.renderRuleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *Handlers) ruleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid rule ID",
			Code:    http.StatusBadRequest,
		})
		return 0, false
	}
	return uint(id), true
}

func (h *Handlers) renderRuleError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrRuleNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "Rule not found",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Error:   "database_error",
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	})
}
