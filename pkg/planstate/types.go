// Package planstate holds the shared chatroom's plan state: the current
// route/restaurant/budget texts, the two consent-vote protocols (mediation
// and final confirmation), and the replan-confirmation gate. Sessions live
// in a mutex-guarded in-memory map and are cloned for safe reads.
package planstate

import "time"

// ModificationType is the kind of plan change a mediation vote is gating.
type ModificationType string

const (
	ModificationRoute      ModificationType = "route"
	ModificationRestaurant ModificationType = "restaurant"
	ModificationBudget     ModificationType = "budget"
)

// VoteKind distinguishes the two unanimous-consent protocols.
type VoteKind string

const (
	VoteKindMediation    VoteKind = "mediation"
	VoteKindConfirmation VoteKind = "confirmation"
)

// VoteState is a single participant's stance in an active tally.
type VoteState string

const (
	VotePending  VoteState = "pending"
	VoteAgree    VoteState = "agree"
	VoteDisagree VoteState = "disagree"
)

// VoteTally maps participant id to stance for one active consent protocol.
// A nil tally means no protocol of that kind is in progress.
type VoteTally map[string]VoteState

// Snapshot is a read-only copy of a Session's fields, safe to use after the
// underlying Session has continued mutating.
type Snapshot struct {
	ID                         string
	RoutePlan                  string
	RestaurantPlan             string
	Budget                     *float64
	Currency                   string
	AwaitingReplanConfirmation bool
	AwaitingMediation          bool
	AwaitingConfirmation       bool
	PendingModificationRequest string
	MediationRequestingUserID  string
	MediationModificationType  ModificationType
	MediationVotes             VoteTally
	ConfirmationVotes          VoteTally
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// HasPlan reports whether a route or restaurant plan currently exists.
func (s Snapshot) HasPlan() bool {
	return s.RoutePlan != "" || s.RestaurantPlan != ""
}
