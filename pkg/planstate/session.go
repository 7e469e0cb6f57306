package planstate

import (
	"sync"
	"time"
)

// Session is the shared chatroom's single unit of plan state. All
// mutations go through its methods, which hold mu for the duration of a
// read-modify-write — never across an LLM call.
type Session struct {
	mu sync.RWMutex

	id             string
	routePlan      string
	restaurantPlan string
	budget         *float64
	currency       string

	awaitingReplanConfirmation bool
	awaitingMediation          bool
	awaitingConfirmation       bool

	pendingModificationRequest string
	mediationRequestingUserID  string
	mediationModificationType  ModificationType

	mediationVotes    VoteTally
	confirmationVotes VoteTally

	createdAt time.Time
	updatedAt time.Time
}

// NewSession creates a fresh, empty session.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns a safe read-only copy of the session's current fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ID:                         s.id,
		RoutePlan:                  s.routePlan,
		RestaurantPlan:             s.restaurantPlan,
		Budget:                     s.budget,
		Currency:                   s.currency,
		AwaitingReplanConfirmation: s.awaitingReplanConfirmation,
		AwaitingMediation:          s.awaitingMediation,
		AwaitingConfirmation:       s.awaitingConfirmation,
		PendingModificationRequest: s.pendingModificationRequest,
		MediationRequestingUserID:  s.mediationRequestingUserID,
		MediationModificationType:  s.mediationModificationType,
		MediationVotes:             cloneVotes(s.mediationVotes),
		ConfirmationVotes:          cloneVotes(s.confirmationVotes),
		CreatedAt:                  s.createdAt,
		UpdatedAt:                  s.updatedAt,
	}
}

func cloneVotes(v VoteTally) VoteTally {
	if v == nil {
		return nil
	}
	out := make(VoteTally, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// touch updates UpdatedAt. Caller must hold the write lock.
func (s *Session) touch() { s.updatedAt = time.Now() }

// SetPlans overwrites both plan texts.
func (s *Session) SetPlans(route, restaurant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routePlan = route
	s.restaurantPlan = restaurant
	s.touch()
}

// SetRoutePlan overwrites only the route text (route-only modification).
func (s *Session) SetRoutePlan(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routePlan = route
	s.touch()
}

// SetRestaurantPlan overwrites only the restaurant text.
func (s *Session) SetRestaurantPlan(restaurant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurantPlan = restaurant
	s.touch()
}

// SetBudget overwrites the stated budget and currency. This is called
// unconditionally on a budget modification even when the subsequent audit
// fails — the user's explicit intent always persists.
func (s *Session) SetBudget(budget *float64, currency string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
	s.currency = currency
	s.touch()
}

// SetAwaitingReplanConfirmation sets or clears the replan-confirmation gate.
// Setting it true clears the other two awaiting flags and their context,
// preserving mutual exclusion of the three gates.
func (s *Session) SetAwaitingReplanConfirmation(awaiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingReplanConfirmation = awaiting
	if awaiting {
		s.awaitingMediation = false
		s.awaitingConfirmation = false
		s.clearMediationContextLocked()
		s.confirmationVotes = nil
	}
	s.touch()
}

// EnterMediation begins the modification-mediation protocol: stashes the
// proposer's utterance and excludes them from the tally, resets the tally to
// pending for every other active participant, and sets awaiting_mediation.
// Entering mediation clears the other two awaiting flags and their context.
func (s *Session) EnterMediation(requestingUserID string, modType ModificationType, request string, activeParticipantIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.awaitingMediation = true
	s.awaitingConfirmation = false
	s.awaitingReplanConfirmation = false
	s.confirmationVotes = nil

	s.pendingModificationRequest = request
	s.mediationRequestingUserID = requestingUserID
	s.mediationModificationType = modType

	s.mediationVotes = make(VoteTally, len(activeParticipantIDs))
	for _, id := range activeParticipantIDs {
		if id == requestingUserID {
			continue
		}
		s.mediationVotes[id] = VotePending
	}
	s.touch()
}

// ClearMediation exits the mediation protocol. Clearing the flag always
// clears its associated context fields with it.
func (s *Session) ClearMediation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMediationLocked()
}

func (s *Session) clearMediationLocked() {
	s.awaitingMediation = false
	s.pendingModificationRequest = ""
	s.mediationRequestingUserID = ""
	s.mediationModificationType = ""
	s.mediationVotes = nil
	s.touch()
}

// RecordMediationVote records participantID's vote in the mediation tally.
// No-op if mediation is not currently active.
func (s *Session) RecordMediationVote(participantID string, state VoteState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaitingMediation || s.mediationVotes == nil {
		return
	}
	s.mediationVotes[participantID] = state
	s.touch()
}

// MediationPasses reports whether every active participant other than the
// proposer has voted agree, and at least one such participant exists.
func (s *Session) MediationPasses(activeParticipantIDs []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tallyPasses(s.mediationVotes, activeParticipantIDs, s.mediationRequestingUserID)
}

// EnterConfirmation begins the final-confirmation protocol over every
// active participant (no exclusion), and sets awaiting_confirmation.
func (s *Session) EnterConfirmation(activeParticipantIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.awaitingConfirmation = true
	s.awaitingMediation = false
	s.awaitingReplanConfirmation = false
	s.clearMediationContextLocked()

	s.confirmationVotes = make(VoteTally, len(activeParticipantIDs))
	for _, id := range activeParticipantIDs {
		s.confirmationVotes[id] = VotePending
	}
	s.touch()
}

func (s *Session) clearMediationContextLocked() {
	s.pendingModificationRequest = ""
	s.mediationRequestingUserID = ""
	s.mediationModificationType = ""
	s.mediationVotes = nil
}

// ClearConfirmation exits the confirmation protocol.
func (s *Session) ClearConfirmation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingConfirmation = false
	s.confirmationVotes = nil
	s.touch()
}

// RecordConfirmationVote records participantID's vote in the confirmation
// tally. No-op if confirmation is not currently active.
func (s *Session) RecordConfirmationVote(participantID string, state VoteState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaitingConfirmation || s.confirmationVotes == nil {
		return
	}
	s.confirmationVotes[participantID] = state
	s.touch()
}

// ConfirmationPasses reports whether every active participant has voted
// agree, and at least one exists.
func (s *Session) ConfirmationPasses(activeParticipantIDs []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tallyPasses(s.confirmationVotes, activeParticipantIDs, "")
}

// tallyPasses is the shared pass rule for both vote kinds: every active
// participant other than excludeID must map to agree, and at least one such
// participant must exist.
func tallyPasses(votes VoteTally, activeParticipantIDs []string, excludeID string) bool {
	checked := 0
	for _, id := range activeParticipantIDs {
		if id == excludeID {
			continue
		}
		checked++
		if votes[id] != VoteAgree {
			return false
		}
	}
	return checked > 0
}
