// Package travel implements the router, travel supervisor, and the seven
// planner stages (route, restaurant, budget auditor, budget extractor,
// mediator, confirmation, fallback) as direct (template, bindings)
// invocations over the LLM gateway, with best-effort JSON salvage applied
// to every structured stage's output.
package travel

// Intent is the travel supervisor's closed classification of a travel
// utterance. Unknown values from the LLM default to IntentNewPlan rather
// than being rejected — a model hiccup must never fail the request.
type Intent string

const (
	IntentNewPlan               Intent = "new_plan"
	IntentModifyRoute           Intent = "modify_route"
	IntentModifyRestaurant      Intent = "modify_restaurant"
	IntentModifyBudget          Intent = "modify_budget"
	IntentReplanAfterBudgetFail Intent = "replan_after_budget_fail"
	IntentConfirmPlan           Intent = "confirm_plan"
)

// ParseIntent maps raw text to one of the six known intents, defaulting to
// IntentNewPlan on anything unrecognized.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentModifyRoute, IntentModifyRestaurant, IntentModifyBudget,
		IntentReplanAfterBudgetFail, IntentConfirmPlan:
		return Intent(raw)
	default:
		return IntentNewPlan
	}
}

// RouterAgent is the router's classification of which sub-agent should
// handle an utterance.
type RouterAgent string

const (
	AgentBill    RouterAgent = "bill"
	AgentTravel  RouterAgent = "travel"
	AgentUnknown RouterAgent = "unknown"
)

// ParseRouterAgent maps raw text to a known agent, defaulting to
// AgentUnknown (which the caller routes to the Fallback agent).
func ParseRouterAgent(raw string) RouterAgent {
	switch RouterAgent(raw) {
	case AgentBill, AgentTravel:
		return RouterAgent(raw)
	default:
		return AgentUnknown
	}
}
