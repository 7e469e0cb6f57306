package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/database"
)

// healthHandler handles GET /health — liveness plus whether the LLM
// gateway is configured. A missing API key degrades /chat and /events to
// error frames but never fails this endpoint.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	if _, err := database.Health(reqCtx, s.db.DB()); err != nil {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, &HealthResponse{
		Status:          status,
		ModelConfigured: s.cfg.HasLLM(),
	})
}
