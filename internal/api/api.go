// Package api holds the HTTP transport contract: DTOs, error codes and route registration.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DateLayout is the wire format of report window bounds.
const DateLayout = time.DateOnly

// ErrorResponseErrorCode enumerates API error codes.
type ErrorResponseErrorCode string

// Defines values for ErrorResponseErrorCode.
const (
	VALIDATIONERROR  ErrorResponseErrorCode = "VALIDATION_ERROR"
	NOTFOUND         ErrorResponseErrorCode = "NOT_FOUND"
	UPSTREAMERROR    ErrorResponseErrorCode = "UPSTREAM_ERROR"
	DATABASEERROR    ErrorResponseErrorCode = "DATABASE_ERROR"
	REPORTINPROGRESS ErrorResponseErrorCode = "REPORT_IN_PROGRESS"
	UNAUTHORIZED     ErrorResponseErrorCode = "UNAUTHORIZED"
	RATELIMITED      ErrorResponseErrorCode = "RATE_LIMITED"
	INTERNALERROR    ErrorResponseErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// GenerateReportRequest defines model for POST /api/reports/generate.
type GenerateReportRequest struct {
	OrganizationId string `json:"organizationId"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
}

// GetReportParams defines query parameters for GET /api/reports/{organizationId}.
type GetReportParams struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// WeeklyReport defines model for WeeklyReport.
type WeeklyReport struct {
	Id             string      `json:"id"`
	OrganizationId string      `json:"organizationId"`
	StartDate      time.Time   `json:"startDate"`
	EndDate        time.Time   `json:"endDate"`
	Status         string      `json:"status"`
	ReportData     interface{} `json:"reportData"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ReportResponse wraps a report in the success envelope.
type ReportResponse struct {
	Success bool         `json:"success"`
	Data    WeeklyReport `json:"data"`
}

// StatusResponse is returned by health and webhook endpoints.
type StatusResponse struct {
	Status string `json:"status"`
	Event  string `json:"event,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(c *fiber.Ctx) error
	// (POST /api/reports/generate)
	PostReportsGenerate(c *fiber.Ctx) error
	// (GET /api/reports/{organizationId})
	GetReport(c *fiber.Ctx, organizationId string) error
	// (POST /api/webhook)
	PostWebhook(c *fiber.Ctx) error
}

// RegisterHandlers binds ServerInterface methods to routes.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	router.Get("/health", si.GetHealth)
	router.Post("/api/reports/generate", si.PostReportsGenerate)
	router.Get("/api/reports/:organizationId", func(c *fiber.Ctx) error {
		return si.GetReport(c, c.Params("organizationId"))
	})
	router.Post("/api/webhook", si.PostWebhook)
}
