package travel

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/travelroom/pkg/jsonsalvage"
	"github.com/codeready-toolchain/travelroom/pkg/llm"
	"github.com/codeready-toolchain/travelroom/pkg/prompt"
)

// sentinelNone is substituted for empty prior-state fields in the
// supervisor and mediator bindings, so the LLM sees an explicit absence
// marker rather than a blank string. The route planner omits an empty
// previous route entirely instead.
const sentinelNone = "None"

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return sentinelNone
	}
	return s
}

// truncate caps s to limit characters. The limit is a tunable (not a
// hard-coded constant) so prior plan context handed back into a prompt is
// bounded without being silently dropped. The cut is made on a rune
// boundary so a multi-byte character is never split into invalid UTF-8.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Stages bundles the LLM gateway, the prompt registry, and the previous-text
// truncation limit shared by every stage invocation.
type Stages struct {
	Gateway   llm.Gateway
	Prompts   *prompt.Registry
	TextLimit int
}

// NewStages constructs a Stages bundle.
func NewStages(gw llm.Gateway, prompts *prompt.Registry, textLimit int) *Stages {
	return &Stages{Gateway: gw, Prompts: prompts, TextLimit: textLimit}
}

func (s *Stages) collect(ctx context.Context, id prompt.TemplateID, bindings any) (string, error) {
	rendered, err := s.Prompts.Render(id, bindings)
	if err != nil {
		return "", err
	}
	return llm.Collect(s.Gateway.Stream(ctx, "", rendered))
}

func (s *Stages) stream(ctx context.Context, id prompt.TemplateID, bindings any) (<-chan llm.Chunk, error) {
	rendered, err := s.Prompts.Render(id, bindings)
	if err != nil {
		errCh := make(chan llm.Chunk, 1)
		errCh <- llm.Chunk{Err: err}
		close(errCh)
		return errCh, err
	}
	return s.Gateway.Stream(ctx, "", rendered), nil
}

// RouterResult is the router's raw classification.
type RouterResult struct {
	Agent RouterAgent
}

// ClassifyRouter determines whether an utterance is bill-, travel-, or
// unknown-scoped. Parse failure defaults to AgentUnknown.
func (s *Stages) ClassifyRouter(ctx context.Context, userInput string) RouterResult {
	raw, err := s.collect(ctx, prompt.Router, struct{ UserInput string }{userInput})
	if err != nil {
		return RouterResult{Agent: AgentUnknown}
	}
	var parsed struct {
		Agent string `json:"agent"`
	}
	if !jsonsalvage.Extract(raw, &parsed) {
		return RouterResult{Agent: AgentUnknown}
	}
	return RouterResult{Agent: ParseRouterAgent(parsed.Agent)}
}

// SupervisorInput is the session context the travel supervisor classifies
// an utterance against.
type SupervisorInput struct {
	UserInput                  string
	PreviousRoutePlan          string
	PreviousRestaurantPlan     string
	PreviousBudget             string
	AwaitingReplanConfirmation bool
}

// SupervisorResult is the travel supervisor's intent classification.
type SupervisorResult struct {
	Intent Intent
	Reason string
}

// ClassifySupervisor determines which of the six travel intents an
// utterance represents. Parse failure defaults to IntentNewPlan.
func (s *Stages) ClassifySupervisor(ctx context.Context, in SupervisorInput) SupervisorResult {
	bindings := struct {
		UserInput                  string
		PreviousRoutePlan          string
		PreviousRestaurantPlan     string
		PreviousBudget             string
		AwaitingReplanConfirmation string
	}{
		UserInput:              in.UserInput,
		PreviousRoutePlan:      orNone(in.PreviousRoutePlan),
		PreviousRestaurantPlan: orNone(in.PreviousRestaurantPlan),
		PreviousBudget:         orNone(in.PreviousBudget),
	}
	if in.AwaitingReplanConfirmation {
		bindings.AwaitingReplanConfirmation = "true"
	} else {
		bindings.AwaitingReplanConfirmation = "false"
	}

	raw, err := s.collect(ctx, prompt.TravelSupervisor, bindings)
	if err != nil {
		return SupervisorResult{Intent: IntentNewPlan, Reason: "llm error, defaulted"}
	}
	var parsed struct {
		Intent string `json:"intent"`
		Reason string `json:"reason"`
	}
	if !jsonsalvage.Extract(raw, &parsed) {
		return SupervisorResult{Intent: IntentNewPlan, Reason: "parse error, defaulted"}
	}
	return SupervisorResult{Intent: ParseIntent(parsed.Intent), Reason: parsed.Reason}
}

// RoutePlannerInput gathers everything the route planner template needs.
type RoutePlannerInput struct {
	UserInput         string
	PreviousRoutePlan string
	BudgetConstraint  string
	RevisionRequest   string
}

// StreamRoutePlanner streams the route planner's itinerary text.
func (s *Stages) StreamRoutePlanner(ctx context.Context, in RoutePlannerInput) (<-chan llm.Chunk, error) {
	prev := ""
	if strings.TrimSpace(in.PreviousRoutePlan) != "" {
		prev = "Previous route plan:\n" + truncate(in.PreviousRoutePlan, s.TextLimit)
	}
	budget := ""
	if strings.TrimSpace(in.BudgetConstraint) != "" {
		budget = "Budget constraint: " + in.BudgetConstraint
	}
	revision := ""
	if strings.TrimSpace(in.RevisionRequest) != "" {
		revision = "Revision directive: " + in.RevisionRequest
	}
	return s.stream(ctx, prompt.RoutePlanner, struct {
		PreviousRoutePlan string
		BudgetConstraint  string
		RevisionRequest   string
		UserInput         string
	}{prev, budget, revision, in.UserInput})
}

// StreamRestaurantPlanner streams restaurant recommendations anchored to
// the current route plan.
func (s *Stages) StreamRestaurantPlanner(ctx context.Context, userInput, routePlan string) (<-chan llm.Chunk, error) {
	return s.stream(ctx, prompt.RestaurantPlanner, struct {
		RoutePlan string
		UserInput string
	}{truncate(routePlan, s.TextLimit), userInput})
}

// AuditResult is the budget auditor's structured verdict.
type AuditResult struct {
	IsFeasible         bool
	BudgetOK           bool
	Currency           string
	MaxBudget          *float64
	TotalEstimatedCost float64
	RemainingBudget    float64
	ErrorType          string
	Reason             string
	Suggestion         string
}

// Passes reports auditor pass per the glossary: budget_ok && is_feasible.
func (a AuditResult) Passes() bool { return a.BudgetOK && a.IsFeasible }

// AuditBudget invokes the budget auditor. On parse failure it soft-passes
// with a diagnostic reason rather than blocking the plan.
func (s *Stages) AuditBudget(ctx context.Context, userInput, userBudget, routePlan, restaurantPlan string) AuditResult {
	raw, err := s.collect(ctx, prompt.BudgetAuditor, struct {
		UserInput      string
		UserBudget     string
		RoutePlan      string
		RestaurantPlan string
	}{userInput, userBudget, truncate(routePlan, s.TextLimit), truncate(restaurantPlan, s.TextLimit)})
	if err != nil {
		return AuditResult{IsFeasible: true, BudgetOK: true, ErrorType: "NONE", Reason: "llm error, soft pass: " + err.Error()}
	}

	var parsed struct {
		IsFeasible         bool     `json:"is_feasible"`
		BudgetOK           bool     `json:"budget_ok"`
		Currency           string   `json:"currency"`
		MaxBudget          *float64 `json:"max_budget"`
		TotalEstimatedCost float64  `json:"total_estimated_cost"`
		RemainingBudget    float64  `json:"remaining_budget"`
		ErrorType          string   `json:"error_type"`
		Reason             string   `json:"reason"`
		Suggestion         string   `json:"suggestion"`
	}
	if !jsonsalvage.Extract(raw, &parsed) {
		return AuditResult{IsFeasible: true, BudgetOK: true, ErrorType: "NONE", Reason: "could not parse auditor response, soft pass"}
	}
	return AuditResult{
		IsFeasible:         parsed.IsFeasible,
		BudgetOK:           parsed.BudgetOK,
		Currency:           parsed.Currency,
		MaxBudget:          parsed.MaxBudget,
		TotalEstimatedCost: parsed.TotalEstimatedCost,
		RemainingBudget:    parsed.RemainingBudget,
		ErrorType:          parsed.ErrorType,
		Reason:             parsed.Reason,
		Suggestion:         parsed.Suggestion,
	}
}

// BudgetExtraction is the budget extractor's structured result.
type BudgetExtraction struct {
	Budget   *float64
	Currency string
	Found    bool
}

// ExtractBudget extracts a stated budget amount from free text. It is
// preferred over heuristic number parsing wherever the user's budget
// intent must be learned.
func (s *Stages) ExtractBudget(ctx context.Context, userInput string) BudgetExtraction {
	raw, err := s.collect(ctx, prompt.BudgetExtractor, struct{ UserInput string }{userInput})
	if err != nil {
		return BudgetExtraction{Currency: "USD"}
	}
	var parsed struct {
		Budget   *float64 `json:"budget"`
		Currency string   `json:"currency"`
		Found    bool     `json:"found"`
	}
	if !jsonsalvage.Extract(raw, &parsed) {
		return BudgetExtraction{Currency: "USD"}
	}
	if parsed.Currency == "" {
		parsed.Currency = "USD"
	}
	return BudgetExtraction{Budget: parsed.Budget, Currency: parsed.Currency, Found: parsed.Found}
}

// MediatorInput gathers the mediation-solicitation template's bindings.
type MediatorInput struct {
	RoutePlan           string
	RestaurantPlan      string
	RequestingUser      string
	ModificationRequest string
	ActiveUsers         []string
}

// StreamMediator streams the mediator's group-consent solicitation.
func (s *Stages) StreamMediator(ctx context.Context, in MediatorInput) (<-chan llm.Chunk, error) {
	return s.stream(ctx, prompt.Mediator, struct {
		RoutePlan           string
		RestaurantPlan      string
		RequestingUser      string
		ModificationRequest string
		ActiveUsers         string
	}{
		orNone(in.RoutePlan), orNone(in.RestaurantPlan), in.RequestingUser,
		in.ModificationRequest, strings.Join(in.ActiveUsers, ", "),
	})
}

// ConfirmationInput gathers the final-confirmation template's bindings.
type ConfirmationInput struct {
	RoutePlan         string
	RestaurantPlan    string
	BudgetCheckResult string
	ActiveUsers       []string
}

// StreamConfirmation streams the confirmation agent's brief solicitation.
func (s *Stages) StreamConfirmation(ctx context.Context, in ConfirmationInput) (<-chan llm.Chunk, error) {
	return s.stream(ctx, prompt.Confirmation, struct {
		RoutePlan         string
		RestaurantPlan    string
		BudgetCheckResult string
		ActiveUsers       string
	}{in.RoutePlan, in.RestaurantPlan, in.BudgetCheckResult, strings.Join(in.ActiveUsers, ", ")})
}

// RunBillAssistant invokes the bill assistant and returns its full raw
// completion for the caller to interpret: the response shape is
// polymorphic (a query directive, a single bill object, an array of bill
// objects, or unparseable free text), so parsing is left to the caller
// rather than forced into one structured result type.
func (s *Stages) RunBillAssistant(ctx context.Context, userInput string) (string, error) {
	return s.collect(ctx, prompt.BillAssistant, struct{ UserInput string }{userInput})
}

// StreamFallback streams the generalist fallback agent's reply for
// out-of-scope or ambiguous utterances.
func (s *Stages) StreamFallback(ctx context.Context, userInput string) (<-chan llm.Chunk, error) {
	return s.stream(ctx, prompt.Fallback, struct{ UserInput string }{userInput})
}

// BudgetAlertMessage builds the fixed closing prompt the orchestrator
// appends to every Budget Alert frame.
func BudgetAlertMessage(reason, suggestion string) string {
	return fmt.Sprintf("%s\n\n%s\n\nReply 'yes'/'ok'/'replan' to replan within budget.", reason, suggestion)
}
