package travel

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/travelroom/pkg/llm"
	"github.com/codeready-toolchain/travelroom/pkg/prompt"
)

func newStages(responses ...string) (*Stages, *llm.StaticGateway) {
	gw := llm.NewStaticGateway(responses...)
	return NewStages(gw, prompt.New(), 3000), gw
}

func TestClassifyRouterParsesAgent(t *testing.T) {
	s, _ := newStages(`{"agent": "travel"}`)
	result := s.ClassifyRouter(context.Background(), "plan a trip")
	assert.Equal(t, AgentTravel, result.Agent)
}

func TestClassifyRouterDefaultsOnParseFailure(t *testing.T) {
	s, _ := newStages("not json at all")
	result := s.ClassifyRouter(context.Background(), "???")
	assert.Equal(t, AgentUnknown, result.Agent)
}

func TestClassifySupervisorParsesIntent(t *testing.T) {
	s, _ := newStages(`{"intent": "modify_route", "reason": "feedback on hotel"}`)
	result := s.ClassifySupervisor(context.Background(), SupervisorInput{UserInput: "change the hotel"})
	assert.Equal(t, IntentModifyRoute, result.Intent)
}

func TestClassifySupervisorDefaultsToNewPlan(t *testing.T) {
	s, _ := newStages("garbage")
	result := s.ClassifySupervisor(context.Background(), SupervisorInput{UserInput: "hi"})
	assert.Equal(t, IntentNewPlan, result.Intent)
}

func TestAuditBudgetParsesVerdict(t *testing.T) {
	s, _ := newStages(`{"is_feasible": false, "budget_ok": false, "currency": "USD", "max_budget": 20, "total_estimated_cost": 1500, "remaining_budget": -1480, "error_type": "HARD_LIMIT", "reason": "impossible", "suggestion": "raise budget"}`)
	result := s.AuditBudget(context.Background(), "5 days London $20", "20", "route", "restaurant")
	assert.False(t, result.Passes())
	assert.Equal(t, "HARD_LIMIT", result.ErrorType)
	assert.Contains(t, result.Reason, "impossible")
}

func TestAuditBudgetSoftPassesOnParseFailure(t *testing.T) {
	s, _ := newStages("not json")
	result := s.AuditBudget(context.Background(), "trip", "", "route", "restaurant")
	assert.True(t, result.Passes())
}

func TestExtractBudgetFound(t *testing.T) {
	s, _ := newStages(`{"budget": 1500, "currency": "USD", "found": true}`)
	result := s.ExtractBudget(context.Background(), "change budget to 1500")
	require.NotNil(t, result.Budget)
	assert.Equal(t, 1500.0, *result.Budget)
	assert.True(t, result.Found)
}

func TestStreamRoutePlannerRendersBindings(t *testing.T) {
	s, gw := newStages("itinerary text")
	ch, err := s.StreamRoutePlanner(context.Background(), RoutePlannerInput{
		UserInput:         "3 days in Rome",
		PreviousRoutePlan: "",
	})
	require.NoError(t, err)
	out, err := llm.Collect(ch)
	require.NoError(t, err)
	assert.Equal(t, "itinerary text", out)
	require.Len(t, gw.Seen, 1)
	assert.Contains(t, gw.Seen[0].UserPrompt, "3 days in Rome")
}

func TestTruncateCutsOnRuneBoundaries(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))

	multibyte := strings.Repeat("日", 10)
	out := truncate(multibyte, 5)
	assert.Equal(t, strings.Repeat("日", 5), out)
	assert.True(t, utf8.ValidString(out))
}

func TestBudgetAlertMessageIncludesFixedPrompt(t *testing.T) {
	msg := BudgetAlertMessage("too expensive", "cut a day")
	assert.Contains(t, msg, "too expensive")
	assert.Contains(t, msg, "cut a day")
	assert.Contains(t, msg, "replan within budget")
}
