package api

import (
	"net/http"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"
)

// requestUserID resolves the caller's participant id from the X-User-ID
// header, falling back to the user_id query/body field.
func requestUserID(c *echo.Context, bodyUserID string) string {
	if h := c.Request().Header.Get("X-User-ID"); h != "" {
		return h
	}
	if q := c.QueryParam("user_id"); q != "" {
		return q
	}
	return bodyUserID
}

// getUserHandler handles GET /user — looks up (or, if the id is new,
// creates) a participant and returns their display name.
func (s *Server) getUserHandler(c *echo.Context) error {
	id := requestUserID(c, "")
	if id == "" {
		id = uuid.New().String()
	}
	p := s.participants.GetOrCreate(id)
	return c.JSON(http.StatusOK, &UserResponse{UserID: p.ID, DisplayName: p.DisplayName})
}

// postUserHandler handles POST /user — always issues a fresh participant
// identity.
func (s *Server) postUserHandler(c *echo.Context) error {
	p := s.participants.GetOrCreate(uuid.New().String())
	return c.JSON(http.StatusOK, &UserResponse{UserID: p.ID, DisplayName: p.DisplayName})
}
