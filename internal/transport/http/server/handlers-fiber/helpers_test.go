package handlers_fiber

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    api.ErrorResponseErrorCode
		message string
	}{
		{
			name:    "validation",
			err:     fmt.Errorf("%w: start date must not be after end date", entities.ErrInvalidArgument),
			status:  http.StatusBadRequest,
			code:    api.VALIDATIONERROR,
			message: "invalid argument: start date must not be after end date",
		},
		{name: "organization", err: entities.ErrOrganizationNotFound, status: http.StatusNotFound, code: api.NOTFOUND, message: "organization not found"},
		{name: "report", err: entities.ErrReportNotFound, status: http.StatusNotFound, code: api.NOTFOUND, message: "report not found"},
		{name: "in_progress", err: entities.ErrReportInProgress, status: http.StatusConflict, code: api.REPORTINPROGRESS, message: "report is being computed, retry later"},
		{name: "upstream", err: fmt.Errorf("%w: slack", entities.ErrUpstream), status: http.StatusBadGateway, code: api.UPSTREAMERROR, message: "upstream service failed"},
		{name: "persistence", err: fmt.Errorf("%w: insert report: boom", entities.ErrPersistence), status: http.StatusInternalServerError, code: api.DATABASEERROR, message: "database error"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, code: api.INTERNALERROR, message: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.code, body.Error.Code)
			require.Equal(t, tt.message, body.Error.Message)
		})
	}
}
