package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/database"
)

// listTravelPlansHandler handles GET /travel-plans[?session_id].
func (s *Server) listTravelPlansHandler(c *echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.QueryParam("session_id")

	var (
		plans []database.SavedTravelPlan
		err   error
	)
	if sessionID != "" {
		plans, err = s.db.TravelPlansBySession(ctx, sessionID)
	} else {
		plans, err = s.db.ListTravelPlans(ctx)
	}
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toTravelPlanResponses(plans))
}

// getTravelPlanHandler handles GET /travel-plans/{id}.
func (s *Server) getTravelPlanHandler(c *echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid travel plan id")
	}

	plan, found, err := s.db.TravelPlanByID(c.Request().Context(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if !found {
		return mapStoreError(database.ErrNotFound)
	}
	return c.JSON(http.StatusOK, toTravelPlanResponse(plan))
}

func toTravelPlanResponse(p database.SavedTravelPlan) *TravelPlanResponse {
	return &TravelPlanResponse{
		ID: p.ID, SessionID: p.SessionID, RoutePlan: p.RoutePlan, RestaurantPlan: p.RestaurantPlan,
		Budget: p.Budget, Currency: p.Currency, Destination: p.Destination, Days: p.Days,
		Participants: p.Participants, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func toTravelPlanResponses(plans []database.SavedTravelPlan) []*TravelPlanResponse {
	out := make([]*TravelPlanResponse, len(plans))
	for i, p := range plans {
		out[i] = toTravelPlanResponse(p)
	}
	return out
}
