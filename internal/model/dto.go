package model

import (
	"time"
)

// StatusCounts holds per-status row counts over a loaded email set
type StatusCounts struct {
	All       int `json:"all"`
	Open      int `json:"open"`
	Completed int `json:"completed"`
	Error     int `json:"error"`
}

// EmailListResponse is the dashboard listing payload: the filtered
// rows plus the per-status counts over the loaded set.
type EmailListResponse struct {
	Emails []Email      `json:"emails"`
	Counts StatusCounts `json:"counts"`
}

// CreateEmailRequest is the operator test-insertion payload
type CreateEmailRequest struct {
	ReceivedAt *time.Time `json:"received_at"`
	FromEmail  *string    `json:"from_email"`
	Sender     *string    `json:"sender"`
	Subject    *string    `json:"subject"`
	Snippet    *string    `json:"snippet"`
	Category   string     `json:"category"`
}

// StatusUpdateRequest is the payload for a status transition
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// SuggestRequest is the payload for the AI suggestion endpoint
type SuggestRequest struct {
	ID string `json:"id"`
}

// SuggestResponse carries the drafted reply back to the caller
type SuggestResponse struct {
	Suggested string `json:"suggested"`
}

// ReplyRequest is the payload for recording an outbound reply
type ReplyRequest struct {
	EmailID   string `json:"email_id" binding:"required"`
	ToAddress string `json:"to_address" binding:"required"`
	Body      string `json:"body" binding:"required"`
}

// FaqRuleRequest is the payload for creating or updating a rule
type FaqRuleRequest struct {
	Pattern  string `json:"pattern" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Priority *int   `json:"priority"`
	IsActive *bool  `json:"is_active"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Details   map[string]string `json:"details,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
