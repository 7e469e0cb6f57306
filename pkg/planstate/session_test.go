package planstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPlansAndSnapshot(t *testing.T) {
	s := NewSession("sess-1")
	s.SetPlans("route text", "restaurant text")

	snap := s.Snapshot()
	assert.Equal(t, "route text", snap.RoutePlan)
	assert.Equal(t, "restaurant text", snap.RestaurantPlan)
	assert.True(t, snap.HasPlan())
}

func TestSetBudget(t *testing.T) {
	s := NewSession("sess-1")
	budget := 500.0
	s.SetBudget(&budget, "USD")

	snap := s.Snapshot()
	require.NotNil(t, snap.Budget)
	assert.Equal(t, 500.0, *snap.Budget)
	assert.Equal(t, "USD", snap.Currency)
}

func TestEnterMediationExcludesRequester(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterMediation("u1", ModificationRoute, "take the coast road instead", []string{"u1", "u2", "u3"})

	snap := s.Snapshot()
	assert.True(t, snap.AwaitingMediation)
	assert.Equal(t, "u1", snap.MediationRequestingUserID)
	assert.Equal(t, ModificationRoute, snap.MediationModificationType)
	assert.Equal(t, "take the coast road instead", snap.PendingModificationRequest)

	_, hasRequester := snap.MediationVotes["u1"]
	assert.False(t, hasRequester)
	assert.Equal(t, VotePending, snap.MediationVotes["u2"])
	assert.Equal(t, VotePending, snap.MediationVotes["u3"])
}

func TestEnterMediationClearsOtherGates(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterConfirmation([]string{"u1", "u2"})
	s.EnterMediation("u1", ModificationBudget, "raise budget", []string{"u1", "u2"})

	snap := s.Snapshot()
	assert.True(t, snap.AwaitingMediation)
	assert.False(t, snap.AwaitingConfirmation)
	assert.Nil(t, snap.ConfirmationVotes)
}

func TestMediationPassesRequiresAllNonRequesterAgree(t *testing.T) {
	s := NewSession("sess-1")
	active := []string{"u1", "u2", "u3"}
	s.EnterMediation("u1", ModificationRoute, "req", active)

	assert.False(t, s.MediationPasses(active))

	s.RecordMediationVote("u2", VoteAgree)
	assert.False(t, s.MediationPasses(active))

	s.RecordMediationVote("u3", VoteAgree)
	assert.True(t, s.MediationPasses(active))
}

func TestMediationPassesFalseWhenNoOtherParticipants(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterMediation("u1", ModificationRoute, "req", []string{"u1"})
	assert.False(t, s.MediationPasses([]string{"u1"}))
}

func TestMediationDisagreeBlocks(t *testing.T) {
	s := NewSession("sess-1")
	active := []string{"u1", "u2", "u3"}
	s.EnterMediation("u1", ModificationRoute, "req", active)
	s.RecordMediationVote("u2", VoteAgree)
	s.RecordMediationVote("u3", VoteDisagree)

	assert.False(t, s.MediationPasses(active))
}

func TestClearMediationResetsContext(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterMediation("u1", ModificationRoute, "req", []string{"u1", "u2"})
	s.ClearMediation()

	snap := s.Snapshot()
	assert.False(t, snap.AwaitingMediation)
	assert.Empty(t, snap.PendingModificationRequest)
	assert.Empty(t, snap.MediationRequestingUserID)
	assert.Empty(t, snap.MediationModificationType)
	assert.Nil(t, snap.MediationVotes)
}

func TestEnterConfirmationIncludesEveryone(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterConfirmation([]string{"u1", "u2"})

	snap := s.Snapshot()
	assert.True(t, snap.AwaitingConfirmation)
	assert.Equal(t, VotePending, snap.ConfirmationVotes["u1"])
	assert.Equal(t, VotePending, snap.ConfirmationVotes["u2"])
}

func TestConfirmationPasses(t *testing.T) {
	s := NewSession("sess-1")
	active := []string{"u1", "u2"}
	s.EnterConfirmation(active)

	s.RecordConfirmationVote("u1", VoteAgree)
	assert.False(t, s.ConfirmationPasses(active))

	s.RecordConfirmationVote("u2", VoteAgree)
	assert.True(t, s.ConfirmationPasses(active))
}

func TestVoteNoOpWhenGateNotActive(t *testing.T) {
	s := NewSession("sess-1")
	s.RecordMediationVote("u1", VoteAgree)
	s.RecordConfirmationVote("u1", VoteAgree)

	snap := s.Snapshot()
	assert.Nil(t, snap.MediationVotes)
	assert.Nil(t, snap.ConfirmationVotes)
}

func TestSetAwaitingReplanConfirmationClearsOtherGates(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterConfirmation([]string{"u1"})
	s.SetAwaitingReplanConfirmation(true)

	snap := s.Snapshot()
	assert.True(t, snap.AwaitingReplanConfirmation)
	assert.False(t, snap.AwaitingConfirmation)
	assert.Nil(t, snap.ConfirmationVotes)
}

func TestSetAwaitingReplanConfirmationClearsMediationContext(t *testing.T) {
	s := NewSession("sess-1")
	s.EnterMediation("u1", ModificationRoute, "req", []string{"u1", "u2"})
	s.SetAwaitingReplanConfirmation(true)

	snap := s.Snapshot()
	assert.False(t, snap.AwaitingMediation)
	assert.Empty(t, snap.PendingModificationRequest)
	assert.Empty(t, snap.MediationRequestingUserID)
	assert.Nil(t, snap.MediationVotes)
}

func TestStoreGetOrCreateIsStable(t *testing.T) {
	store := NewStore()
	a := store.GetOrCreate("shared_chatroom_session")
	b := store.GetOrCreate("shared_chatroom_session")
	assert.Same(t, a, b)

	_, ok := store.Get("missing")
	assert.False(t, ok)
}
