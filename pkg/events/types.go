// Package events is the process-local broadcast bus: it fans out streamed
// planner/ai/user/error frames to every connected participant, keeps a
// bounded replay ring for late joiners, and distinguishes incremental
// ("streaming") frames from their final snapshot. Delivery is single-node
// only — there is no cross-process distribution.
package events

import "time"

// FrameKind is the closed set of message frame kinds.
type FrameKind string

const (
	KindUser    FrameKind = "user"
	KindAI      FrameKind = "ai"
	KindPlanner FrameKind = "planner"
	KindError   FrameKind = "error"
)

// SSE frame types emitted over /chat and /events.
const (
	SSETypeStart           = "start"
	SSETypeAgent           = "agent"
	SSETypeChunk           = "chunk"
	SSETypePlannerStart    = "planner_start"
	SSETypePlannerChunk    = "planner_chunk"
	SSETypePlannerComplete = "planner_complete"
	SSETypeBillIDs         = "bill_ids"
	SSETypeComplete        = "complete"
	SSETypeError           = "error"
)

// Frame is a single broadcast message, fanned out to every subscriber and
// retained (bounded) in the replay ring. Frames sharing an ID are successive
// snapshots of the same logical message — consumers replace by ID.
type Frame struct {
	ID            string    `json:"id"`
	Kind          FrameKind `json:"type"`
	ParticipantID string    `json:"user_id,omitempty"`
	DisplayName   string    `json:"username,omitempty"`
	AgentTag      string    `json:"agent,omitempty"`
	PlannerTag    string    `json:"planner,omitempty"`
	Content       string    `json:"content"`
	BillIDs       []int64   `json:"bill_ids,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Streaming     bool      `json:"isStreaming"`
}
