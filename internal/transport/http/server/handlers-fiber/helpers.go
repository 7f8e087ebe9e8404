package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNALERROR
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = api.VALIDATIONERROR
		msg = err.Error()
	case errors.Is(err, entities.ErrOrganizationNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "organization not found"
	case errors.Is(err, entities.ErrReportNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "report not found"
	case errors.Is(err, entities.ErrReportInProgress):
		status = http.StatusConflict
		code = api.REPORTINPROGRESS
		msg = "report is being computed, retry later"
	case errors.Is(err, entities.ErrUpstream):
		status = http.StatusBadGateway
		code = api.UPSTREAMERROR
		msg = "upstream service failed"
	case errors.Is(err, entities.ErrPersistence):
		code = api.DATABASEERROR
		msg = "database error"
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	var resp api.ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}

func validationError(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(api.VALIDATIONERROR, msg))
}
