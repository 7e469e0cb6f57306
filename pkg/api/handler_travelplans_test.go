package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/travelroom/pkg/database"
	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
)

func TestTravelPlanHandlers(t *testing.T) {
	db, err := database.NewClient(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &Server{db: db}
	e := echo.New()

	budget := 500.0
	days := 3
	id, err := db.SaveFinalizedPlan(context.Background(), orchestrator.FinalizedPlan{
		SessionID:      "session-a",
		RoutePlan:      "fly in, train around",
		RestaurantPlan: "street food tour",
		Budget:         &budget,
		Currency:       "USD",
		Destination:    "Kyoto",
		Days:           &days,
		Participants:   []string{"Alex", "Blake"},
	})
	require.NoError(t, err)

	_, err = db.SaveFinalizedPlan(context.Background(), orchestrator.FinalizedPlan{
		SessionID:    "session-b",
		RoutePlan:    "road trip",
		Currency:     "USD",
		Participants: []string{"Casey"},
	})
	require.NoError(t, err)

	t.Run("GET /travel-plans?session_id filters by session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/travel-plans?session_id=session-a", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, s.listTravelPlansHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var plans []*TravelPlanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
		require.Len(t, plans, 1)
		require.Equal(t, "Kyoto", plans[0].Destination)
	})

	t.Run("GET /travel-plans with no filter returns every plan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/travel-plans", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, s.listTravelPlansHandler(c))

		var plans []*TravelPlanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
		require.Len(t, plans, 2)
	})

	t.Run("GET /travel-plans/:id returns the saved plan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/travel-plans/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, s.getTravelPlanHandler(c))

		var plan TravelPlanResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
		require.Equal(t, id, plan.ID)
		require.Equal(t, "Kyoto", plan.Destination)
		require.NotNil(t, plan.Budget)
		require.Equal(t, 500.0, *plan.Budget)
	})

	t.Run("GET /travel-plans/:id on an unknown id returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/travel-plans/99999", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("99999")

		err := s.getTravelPlanHandler(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, he.Code)
	})
}
