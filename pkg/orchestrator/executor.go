// Package orchestrator is the planning state machine at the center of the
// chatroom: it ingests one participant's utterance plus the shared
// session's plan state, classifies intent, dispatches to the travel planner
// stages, and drives the two consent-vote protocols (modification mediation
// and final plan confirmation). A single entry point runs a bounded
// sequence of stages and emits a broadcast frame at each step; consent
// voting is the only thing that interleaves across requests.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/travelroom/pkg/events"
	"github.com/codeready-toolchain/travelroom/pkg/llm"
	"github.com/codeready-toolchain/travelroom/pkg/participants"
	"github.com/codeready-toolchain/travelroom/pkg/planstate"
	"github.com/codeready-toolchain/travelroom/pkg/travel"
)

// ErrSessionBusy is returned when the shared session already has an
// in-flight utterance dispatch: a second arrival is rejected rather than
// interleaved mid-state-machine.
var ErrSessionBusy = errors.New("orchestrator: session is busy processing a previous message")

// Executor wires the travel stages, the shared session store, the
// participant registry, the broadcast bus, and the two persistence ports
// into the per-utterance dispatch.
type Executor struct {
	Stages       *travel.Stages
	Sessions     *planstate.Store
	Participants *participants.Registry
	Bus          *events.Bus
	Bills        BillStore
	Plans        PlanStore

	// SessionID is the single shared chatroom session every utterance is
	// pinned to. The chatroom is deliberately single-room; the id comes
	// from configuration.
	SessionID string

	busy atomic.Bool
}

// NewExecutor constructs an Executor.
func NewExecutor(stages *travel.Stages, sessions *planstate.Store, parts *participants.Registry, bus *events.Bus, bills BillStore, plans PlanStore, sessionID string) *Executor {
	return &Executor{
		Stages:       stages,
		Sessions:     sessions,
		Participants: parts,
		Bus:          bus,
		Bills:        bills,
		Plans:        plans,
		SessionID:    sessionID,
	}
}

// Admit claims the shared session's single-flight slot for one utterance
// dispatch, returning ErrSessionBusy if another non-vote-reply utterance is
// already in flight. A vote reply (the session is awaiting mediation or
// confirmation) bypasses the gate here — it normally only mutates the vote
// tally under the session mutex. The guard paths that can escalate a vote
// reply into a full stage sequence (a passing mediation replay, a negative
// confirmation vote falling through to dispatch) re-claim the slot
// themselves before escalating.
//
// On success the caller must invoke the returned release func exactly once
// after the dispatch it guards has finished. Callers that never contend for
// the slot (tests invoking Execute directly) may skip Admit entirely.
func (e *Executor) Admit() (release func(), err error) {
	sess := e.Sessions.GetOrCreate(e.SessionID)
	snap := sess.Snapshot()
	if snap.AwaitingMediation || snap.AwaitingConfirmation {
		return func() {}, nil
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrSessionBusy
	}
	return func() { e.busy.Store(false) }, nil
}

// Execute runs the full per-utterance pipeline for one participant's
// message: echo, route, and — for travel-classified utterances — the
// mediation/confirmation guards and intent dispatch.
func (e *Executor) Execute(ctx context.Context, participantID, displayName, utterance string) error {
	logger := slog.With("participant_id", participantID, "session_id", e.SessionID)

	router := e.Stages.ClassifyRouter(ctx, utterance)

	e.publish(events.Frame{
		ID:            uuid.New().String(),
		Kind:          events.KindUser,
		ParticipantID: participantID,
		DisplayName:   displayName,
		Content:       utterance,
	})
	e.publish(events.Frame{
		ID:       uuid.New().String(),
		Kind:     events.KindAI,
		AgentTag: string(router.Agent),
	})

	switch router.Agent {
	case travel.AgentBill:
		e.handleBill(ctx, utterance)
	case travel.AgentTravel:
		e.handleTravel(ctx, participantID, displayName, utterance, logger)
	default:
		e.streamFallback(ctx, utterance)
	}
	return nil
}

// publish is a tiny convenience wrapper so every frame gets a timestamp.
func (e *Executor) publish(f events.Frame) {
	f.Timestamp = time.Now()
	e.Bus.Publish(f)
}

// publishError logs err and broadcasts it as an in-band error frame —
// in-stream failures are never surfaced only to the wire.
func (e *Executor) publishError(err error) {
	slog.Warn("emitting in-band error frame", "session_id", e.SessionID, "error", err)
	e.publish(events.Frame{ID: uuid.New().String(), Kind: events.KindError, Content: err.Error()})
}

// streamPlanner drains ch, publishing cumulative-content snapshots under one
// frame id so the replay ring always holds the latest text for that logical
// message. It returns the final accumulated text and any stream error; on
// error an error frame is published and the caller must not treat the
// partial text as authoritative.
func (e *Executor) streamPlanner(ctx context.Context, plannerTag string, ch <-chan llm.Chunk) (string, error) {
	id := uuid.New().String()
	var acc strings.Builder

	for chunk := range ch {
		if chunk.Err != nil {
			e.publishError(chunk.Err)
			return acc.String(), chunk.Err
		}
		acc.WriteString(chunk.Content)
		e.publish(events.Frame{
			ID:         id,
			Kind:       events.KindPlanner,
			PlannerTag: plannerTag,
			Content:    acc.String(),
			Streaming:  true,
		})
	}

	e.publish(events.Frame{
		ID:         id,
		Kind:       events.KindPlanner,
		PlannerTag: plannerTag,
		Content:    acc.String(),
		Streaming:  false,
	})
	return acc.String(), nil
}

// plannerMessage publishes a single, already-complete planner message —
// used for short fixed announcements (mediation outcomes, waiting prompts)
// that never stream.
func (e *Executor) plannerMessage(plannerTag, content string) {
	id := uuid.New().String()
	e.publish(events.Frame{ID: id, Kind: events.KindPlanner, PlannerTag: plannerTag, Content: content, Streaming: true})
	e.publish(events.Frame{ID: id, Kind: events.KindPlanner, PlannerTag: plannerTag, Content: content, Streaming: false})
}

func (e *Executor) streamFallback(ctx context.Context, utterance string) {
	ch, err := e.Stages.StreamFallback(ctx, utterance)
	if err != nil {
		e.publishError(err)
		return
	}
	e.streamPlanner(ctx, "💬 Fallback Agent", ch)
}

// activeParticipantIDs returns the active participant id list, used by both
// vote-tally methods.
func (e *Executor) activeParticipantIDs() []string {
	active := e.Participants.ActiveParticipants()
	ids := make([]string, len(active))
	for i, p := range active {
		ids[i] = p.ID
	}
	return ids
}

func (e *Executor) activeDisplayNames() []string {
	active := e.Participants.ActiveParticipants()
	names := make([]string, len(active))
	for i, p := range active {
		names[i] = p.DisplayName
	}
	return names
}

const (
	plannerRoute        = "🗺️ Travel Route Planner"
	plannerRestaurant   = "🍽️ Restaurant Planner"
	plannerBudget       = "💰 Budget Checker"
	plannerMediator     = "🤝 Mediator Agent"
	plannerConfirmation = "✅ Plan Confirmation Agent"
	plannerBudgetAlert  = "⚠️ Budget Alert"
)

// affirmativeWords / negativeWords classify a free-text vote reply during
// mediation and confirmation.
var affirmativeWords = []string{"agree", "yes", "ok", "confirm", "proceed", "sure", "yep"}
var negativeWords = []string{"disagree", "no", "cancel", "reject"}

type voteStance int

const (
	stanceNeither voteStance = iota
	stanceAffirmative
	stanceNegative
)

func classifyVote(utterance string) voteStance {
	lower := strings.ToLower(utterance)
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return stanceNegative
		}
	}
	for _, w := range affirmativeWords {
		if strings.Contains(lower, w) {
			return stanceAffirmative
		}
	}
	return stanceNeither
}

// fmtBudget renders a budget/currency pair as auditor/planner prompt text,
// or empty when unset.
func fmtBudget(budget *float64, currency string) string {
	if budget == nil {
		return ""
	}
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", *budget, currency)
}
