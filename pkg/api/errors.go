package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/database"
	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
)

// mapExecutorError maps orchestrator.Executor errors to HTTP error
// responses.
func mapExecutorError(err error) *echo.HTTPError {
	if errors.Is(err, orchestrator.ErrSessionBusy) {
		return echo.NewHTTPError(http.StatusConflict, "a message is already being processed for this session")
	}

	slog.Error("unexpected orchestrator error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// mapStoreError maps pkg/database lookup errors to HTTP error responses.
func mapStoreError(err error) *echo.HTTPError {
	if errors.Is(err, database.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}

	slog.Error("unexpected database error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
