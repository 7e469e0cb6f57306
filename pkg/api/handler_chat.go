package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/events"
)

// chatHandler handles POST /chat. It subscribes the caller to the broadcast
// bus, launches the orchestrator dispatch in the background against a
// context detached from the HTTP request, and streams every frame the
// subscription sees back as SSE until the dispatch completes — then drains
// any frames still buffered and closes with a "complete" frame.
//
// The dispatch itself never observes the client's disconnect: a
// disconnecting originator must not interrupt a running LLM stream, since
// its frames still populate the ring for every other subscriber.
func (s *Server) chatHandler(c *echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	id := requestUserID(c, req.UserID)
	if id == "" {
		id = uuid.New().String()
	}
	participant := s.participants.GetOrCreate(id)

	release, err := s.executor.Admit()
	if err != nil {
		return mapExecutorError(err)
	}

	_, sub := s.bus.Subscribe(participant.ID)
	defer s.bus.Unsubscribe(sub)

	sw := newSSEWriter(c)
	clientCtx := c.Request().Context()

	dispatchDone := make(chan error, 1)
	go func() {
		defer release()
		dispatchDone <- s.executor.Execute(context.Background(), participant.ID, participant.DisplayName, req.Message)
	}()

readLoop:
	for {
		select {
		case execErr := <-dispatchDone:
			if execErr != nil {
				_ = sw.WriteFrame(chatErrorFrame(execErr))
			}
			break readLoop
		case <-clientCtx.Done():
			return nil
		default:
		}

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

	for {
		frame, ok := sub.TryNext()
		if !ok {
			break
		}
		_ = sw.WriteFrame(frame)
	}
	_ = sw.WriteComplete()
	return nil
}

func chatErrorFrame(err error) events.Frame {
	return events.Frame{ID: uuid.New().String(), Kind: events.KindError, Content: err.Error(), Timestamp: time.Now()}
}
