package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"mail-triage-go/internal/auth"
	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/repository"
	"mail-triage-go/internal/suggest"
	"mail-triage-go/internal/triage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db        *gorm.DB
	emails    *repository.EmailRepository
	rules     *repository.RuleRepository
	replies   *repository.ReplyRepository
	triage    *triage.Service
	generator *suggest.Generator
	gate      *auth.Gate
	metrics   *metrics.Metrics
}

// New creates new HTTP handlers
func New(
	db *gorm.DB,
	emails *repository.EmailRepository,
	rules *repository.RuleRepository,
	replies *repository.ReplyRepository,
	triageSvc *triage.Service,
	generator *suggest.Generator,
	gate *auth.Gate,
	m *metrics.Metrics,
) *Handlers {
	return &Handlers{
		db:        db,
		emails:    emails,
		rules:     rules,
		replies:   replies,
		triage:    triageSvc,
		generator: generator,
		gate:      gate,
		metrics:   m,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	// Health check
	router.GET("/healthz", h.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// AI suggestion endpoint. Like the rest of the suggestion flow it
	// runs server-side with service credentials, outside the operator
	// session gate.
	router.POST("/suggest", h.Suggest)

	// OAuth sign-in
	if h.gate != nil {
		authGroup := router.Group("/auth")
		{
			authGroup.GET("/login", h.gate.HandleLogin)
			authGroup.GET("/callback", h.gate.HandleCallback)
			authGroup.POST("/logout", h.gate.HandleLogout)
			authGroup.GET("/session", h.gate.HandleSession)
		}
	}

	// API routes
	api := router.Group("/api/v1")
	if h.gate != nil {
		api.Use(h.gate.RequireSession())
	}
	{
		// Emails
		api.GET("/emails", h.ListEmails)
		api.POST("/emails", h.CreateEmail)
		api.PATCH("/emails/:id/status", h.UpdateEmailStatus)
		api.POST("/emails/:id/dismiss", h.DismissSuggestion)
		api.POST("/emails/:id/accept", h.AcceptSuggestion)

		// Replies
		api.POST("/reply", h.CreateReply)

		// Faq rules
		api.GET("/rules", h.GetRules)
		api.POST("/rules", h.CreateRule)
		api.GET("/rules/:id", h.GetRule)
		api.PUT("/rules/:id", h.UpdateRule)
		api.DELETE("/rules/:id", h.DeleteRule)
		api.PATCH("/rules/:id/enable", h.EnableRule)
		api.PATCH("/rules/:id/disable", h.DisableRule)
	}
}
