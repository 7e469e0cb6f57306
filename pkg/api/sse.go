package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sse"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/events"
)

// sseWriter translates events.Frame values into the wire vocabulary
// (start/agent/chunk/planner_start/planner_chunk/planner_complete/
// bill_ids/complete/error) and writes them as SSE events via
// github.com/gin-contrib/sse, flushing after every frame so proxies don't
// buffer a live chatroom update.
//
// One sseWriter is scoped to a single HTTP response; "seen" tracks which
// frame IDs have already been written once, since a planner frame's first
// occurrence is a "_start" event and every later occurrence with the same
// ID is a "_chunk" (still streaming) or "_complete" (done) event.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seen    map[string]bool
}

func newSSEWriter(c *echo.Context) *sseWriter {
	h := c.Response().Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	flusher, _ := c.Response().Writer.(http.Flusher)
	return &sseWriter{w: c.Response().Writer, flusher: flusher, seen: make(map[string]bool)}
}

// WriteFrame encodes f as an SSE event and flushes.
func (sw *sseWriter) WriteFrame(f events.Frame) error {
	first := !sw.seen[f.ID]
	sw.seen[f.ID] = true

	event := frameToSSEEvent(f, first)
	if err := sse.Encode(sw.w, event); err != nil {
		return err
	}
	sw.flush()
	return nil
}

// WriteHeartbeat writes an SSE comment line, keeping idle connections alive
// through proxies without delivering a data frame.
func (sw *sseWriter) WriteHeartbeat() error {
	if _, err := fmt.Fprint(sw.w, ": heartbeat\n\n"); err != nil {
		return err
	}
	sw.flush()
	return nil
}

// WriteComplete writes the transport-level terminal frame every /chat
// response ends with, regardless of how the orchestrator's dispatch ended.
func (sw *sseWriter) WriteComplete() error {
	if err := sse.Encode(sw.w, sse.Event{Event: events.SSETypeComplete, Data: map[string]any{}}); err != nil {
		return err
	}
	sw.flush()
	return nil
}

func (sw *sseWriter) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// frameToSSEEvent maps one internal Frame onto its wire SSE event.
func frameToSSEEvent(f events.Frame, first bool) sse.Event {
	switch f.Kind {
	case events.KindUser:
		return sse.Event{
			Event: events.SSETypeStart,
			Data: map[string]any{
				"id": f.ID, "user_id": f.ParticipantID, "username": f.DisplayName,
				"content": f.Content, "timestamp": f.Timestamp,
			},
		}
	case events.KindAI:
		if len(f.BillIDs) > 0 {
			return sse.Event{
				Event: events.SSETypeBillIDs,
				Data:  map[string]any{"id": f.ID, "bill_ids": f.BillIDs, "timestamp": f.Timestamp},
			}
		}
		eventType := events.SSETypeChunk
		if first && f.AgentTag != "" {
			eventType = events.SSETypeAgent
		}
		return sse.Event{
			Event: eventType,
			Data: map[string]any{
				"id": f.ID, "agent": f.AgentTag, "content": f.Content, "timestamp": f.Timestamp,
			},
		}
	case events.KindPlanner:
		eventType := events.SSETypePlannerChunk
		switch {
		case first:
			eventType = events.SSETypePlannerStart
		case !f.Streaming:
			eventType = events.SSETypePlannerComplete
		}
		return sse.Event{
			Event: eventType,
			Data: map[string]any{
				"id": f.ID, "planner": f.PlannerTag, "content": f.Content, "timestamp": f.Timestamp,
			},
		}
	case events.KindError:
		return sse.Event{
			Event: events.SSETypeError,
			Data:  map[string]any{"id": f.ID, "content": f.Content, "timestamp": f.Timestamp},
		}
	default:
		return sse.Event{Event: events.SSETypeChunk, Data: map[string]any{"id": f.ID, "content": f.Content}}
	}
}
