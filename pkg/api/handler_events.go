package api

import (
	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"
)

// eventsHandler handles GET /events?user_id=… — the subscription channel.
// It replays the ring tail, then streams live frames with a 1s heartbeat
// until the client disconnects.
func (s *Server) eventsHandler(c *echo.Context) error {
	id := requestUserID(c, "")
	if id == "" {
		id = uuid.New().String()
	}
	participant := s.participants.GetOrCreate(id)

	replay, sub := s.bus.Subscribe(participant.ID)
	defer s.bus.Unsubscribe(sub)

	sw := newSSEWriter(c)
	clientCtx := c.Request().Context()

	for _, frame := range replay {
		if err := sw.WriteFrame(frame); err != nil {
			return nil
		}
	}

	for {
		frame, ok, err := sub.Next(clientCtx)
		if ok {
			if werr := sw.WriteFrame(frame); werr != nil {
				return nil
			}
			continue
		}
		if err != nil {
			return nil
		}
		if werr := sw.WriteHeartbeat(); werr != nil {
			return nil
		}
	}
}
