package handlers_fiber

import (
	"net/http"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/mapper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PostReportsGenerate computes the weekly report for the requested window.
func (h *Handler) PostReportsGenerate(c *fiber.Ctx) error {
	var body api.GenerateReportRequest
	if err := c.BodyParser(&body); err != nil {
		return validationError(c, "invalid body")
	}
	return h.computeReport(c, body.OrganizationId, body.StartDate, body.EndDate)
}

// GetReport returns the stored report for the window, computing it when absent.
func (h *Handler) GetReport(c *fiber.Ctx, organizationId string) error {
	var params api.GetReportParams
	if err := c.QueryParser(&params); err != nil {
		return validationError(c, "invalid query")
	}
	return h.computeReport(c, organizationId, params.StartDate, params.EndDate)
}

func (h *Handler) computeReport(c *fiber.Ctx, organizationID, startDate, endDate string) error {
	if _, err := uuid.Parse(organizationID); err != nil {
		return validationError(c, "organizationId must be a uuid")
	}
	start, end, msg := parseWindow(startDate, endDate, h.loc)
	if msg != "" {
		return validationError(c, msg)
	}

	report, err := h.uc.ComputeWeeklyReport(c.Context(), organizationID, start, end)
	if err != nil {
		h.log.Errorw("compute report failed", "organization_id", organizationID, "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(api.ReportResponse{Success: true, Data: mapper.ToAPIReport(*report)})
}

func parseWindow(startDate, endDate string, loc *time.Location) (time.Time, time.Time, string) {
	start, err := mapper.ParseDate(startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, "startDate must be YYYY-MM-DD"
	}
	end, err := mapper.ParseDate(endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, "endDate must be YYYY-MM-DD"
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, "startDate must not be after endDate"
	}
	return start, end, ""
}

// GetHealth reports liveness.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(api.StatusResponse{Status: "ok"})
}
