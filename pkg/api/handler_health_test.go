package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/travelroom/pkg/config"
	"github.com/codeready-toolchain/travelroom/pkg/database"
)

func TestHealthHandler(t *testing.T) {
	db, err := database.NewClient(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	t.Run("reports healthy and whether the LLM is configured", func(t *testing.T) {
		s := &Server{db: db, cfg: &config.Config{OpenAIAPIKey: "sk-test"}}
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, s.healthHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "healthy", resp.Status)
		require.True(t, resp.ModelConfigured)
	})

	t.Run("reports model not configured when no API key is set", func(t *testing.T) {
		s := &Server{db: db, cfg: &config.Config{}}
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, s.healthHandler(c))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.ModelConfigured)
	})
}
