package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeready-toolchain/travelroom/pkg/planstate"
	"github.com/codeready-toolchain/travelroom/pkg/travel"
	"github.com/codeready-toolchain/travelroom/pkg/travel/metaextract"
)

// handleTravel runs the mediation guard, the confirmation guard, and — if
// neither gate absorbs the utterance — the supervisor classification and
// intent dispatch. A flag-gated waiting phase is always resolved before
// any new intent is classified.
func (e *Executor) handleTravel(ctx context.Context, participantID, displayName, utterance string, logger *slog.Logger) {
	sess := e.Sessions.GetOrCreate(e.SessionID)
	snap := sess.Snapshot()

	if snap.AwaitingMediation {
		e.guardMediation(ctx, sess, participantID, displayName, utterance)
		return
	}
	if snap.AwaitingConfirmation {
		if e.guardConfirmation(ctx, sess, participantID, displayName, utterance) {
			return
		}
		// Negative vote falls through to the supervisor with the
		// objector's text as the revision request. The transport edge
		// skipped the single-flight gate for a vote reply, so claim the
		// slot here before re-entering full dispatch.
		if !e.busy.CompareAndSwap(false, true) {
			e.publishError(ErrSessionBusy)
			return
		}
		defer e.busy.Store(false)
		snap = sess.Snapshot()
	}

	result := e.Stages.ClassifySupervisor(ctx, travel.SupervisorInput{
		UserInput:                  utterance,
		PreviousRoutePlan:          snap.RoutePlan,
		PreviousRestaurantPlan:     snap.RestaurantPlan,
		PreviousBudget:             fmtBudget(snap.Budget, snap.Currency),
		AwaitingReplanConfirmation: snap.AwaitingReplanConfirmation,
	})
	logger.Debug("supervisor classified", "intent", result.Intent, "reason", result.Reason)

	e.dispatch(ctx, sess, participantID, displayName, utterance, result.Intent)
}

// guardMediation resolves one vote reply while a modification is pending
// group consent.
func (e *Executor) guardMediation(ctx context.Context, sess *planstate.Session, participantID, displayName, utterance string) {
	switch classifyVote(utterance) {
	case stanceNegative:
		e.plannerMessage(plannerMediator, fmt.Sprintf("**%s** has disagreed with the modification. The original plan will be kept unchanged.", displayName))
		sess.ClearMediation()
	case stanceAffirmative:
		sess.RecordMediationVote(participantID, planstate.VoteAgree)
		snap := sess.Snapshot()
		if sess.MediationPasses(e.activeParticipantIDs()) {
			// Replaying the approved request runs a full stage sequence,
			// so the vote reply must claim the single-flight slot the
			// transport edge skipped. On contention the mediation stays
			// pending and the vote can simply be resent.
			if !e.busy.CompareAndSwap(false, true) {
				e.publishError(ErrSessionBusy)
				return
			}
			defer e.busy.Store(false)
			modType := snap.MediationModificationType
			request := snap.PendingModificationRequest
			sess.ClearMediation()
			e.executeModification(ctx, sess, modType, request)
			return
		}
		e.plannerMessage(plannerMediator, "Waiting for the remaining participants to respond.")
	default:
		e.plannerMessage(plannerMediator, "Please reply 'agree' or 'disagree'.")
	}
}

// guardConfirmation resolves one vote reply while finalization is pending.
// It returns true when the utterance was fully absorbed by the gate
// (affirmative-not-passing, affirmative-and-finalized, or neither
// affirmative nor negative, which re-prompts for a vote); false means
// "negative vote, fall through to the supervisor".
func (e *Executor) guardConfirmation(ctx context.Context, sess *planstate.Session, participantID, displayName, utterance string) bool {
	switch classifyVote(utterance) {
	case stanceNegative:
		sess.ClearConfirmation()
		return false
	case stanceAffirmative:
		sess.RecordConfirmationVote(participantID, planstate.VoteAgree)
		if sess.ConfirmationPasses(e.activeParticipantIDs()) {
			e.finalizePlan(ctx, sess)
			return true
		}
		e.plannerMessage(plannerConfirmation, "Waiting for the remaining participants to confirm.")
		return true
	default:
		e.plannerMessage(plannerConfirmation, "Please reply 'agree'/'yes' to confirm, or 'disagree'/'no' to keep discussing.")
		return true
	}
}

// finalizePlan emits the celebratory frame and persists the finalized plan.
func (e *Executor) finalizePlan(ctx context.Context, sess *planstate.Session) {
	snap := sess.Snapshot()
	sess.ClearConfirmation()

	e.plannerMessage(plannerConfirmation, "The plan has been unanimously confirmed! Safe travels.")

	destination, days := metaextract.Extract(snap.RoutePlan + " " + snap.RestaurantPlan)
	names := e.activeDisplayNames()

	if e.Plans == nil {
		return
	}
	if _, err := e.Plans.SaveFinalizedPlan(ctx, FinalizedPlan{
		SessionID:      snap.ID,
		RoutePlan:      snap.RoutePlan,
		RestaurantPlan: snap.RestaurantPlan,
		Budget:         snap.Budget,
		Currency:       snap.Currency,
		Destination:    destination,
		Days:           days,
		Participants:   names,
	}); err != nil {
		// The vote is not rolled back on a save failure — the plan is
		// considered verbally finalized regardless.
		e.plannerMessage(plannerConfirmation, "The plan was confirmed, but saving it failed: "+err.Error())
	}
}

// dispatch routes a classified utterance to its intent's executor.
func (e *Executor) dispatch(ctx context.Context, sess *planstate.Session, participantID, displayName, utterance string, intent travel.Intent) {
	switch intent {
	case travel.IntentNewPlan:
		e.runNewPlan(ctx, sess, utterance, "", true)
	case travel.IntentReplanAfterBudgetFail:
		sess.SetAwaitingReplanConfirmation(false)
		// On repeat failure the alert states further compression isn't
		// possible rather than re-arming the gate for a second prompt.
		e.runNewPlan(ctx, sess, utterance, "Stay strictly within the previously stated budget; trim scope as needed.", false)
	case travel.IntentModifyRoute:
		e.modify(ctx, sess, participantID, displayName, utterance, planstate.ModificationRoute)
	case travel.IntentModifyRestaurant:
		e.modify(ctx, sess, participantID, displayName, utterance, planstate.ModificationRestaurant)
	case travel.IntentModifyBudget:
		e.modify(ctx, sess, participantID, displayName, utterance, planstate.ModificationBudget)
	case travel.IntentConfirmPlan:
		e.beginConfirmation(ctx, sess)
	}
}

// runNewPlan runs Route → Restaurant → Budget Auditor sequentially. A
// budget stated in the utterance is extracted up front and persisted with
// the plan texts.
func (e *Executor) runNewPlan(ctx context.Context, sess *planstate.Session, utterance, revisionDirective string, armReplanGateOnFailure bool) {
	if extraction := e.Stages.ExtractBudget(ctx, utterance); extraction.Found {
		sess.SetBudget(extraction.Budget, extraction.Currency)
	}
	snap := sess.Snapshot()

	routeCh, err := e.Stages.StreamRoutePlanner(ctx, travel.RoutePlannerInput{
		UserInput:         utterance,
		PreviousRoutePlan: snap.RoutePlan,
		BudgetConstraint:  fmtBudget(snap.Budget, snap.Currency),
		RevisionRequest:   revisionDirective,
	})
	if err != nil {
		e.publishError(err)
		return
	}
	routeText, err := e.streamPlanner(ctx, plannerRoute, routeCh)
	if err != nil {
		return
	}

	restaurantCh, err := e.Stages.StreamRestaurantPlanner(ctx, utterance, routeText)
	if err != nil {
		e.publishError(err)
		return
	}
	restaurantText, err := e.streamPlanner(ctx, plannerRestaurant, restaurantCh)
	if err != nil {
		return
	}

	audit := e.Stages.AuditBudget(ctx, utterance, fmtBudget(snap.Budget, snap.Currency), routeText, restaurantText)
	e.plannerMessage(plannerBudget, auditSummary(audit))

	sess.SetPlans(routeText, restaurantText)

	if !audit.Passes() {
		if armReplanGateOnFailure {
			e.emitBudgetAlert(sess, audit)
			return
		}
		// Repeat failure: state that further compression isn't possible
		// without re-arming the gate for another prompt.
		e.plannerMessage(plannerBudgetAlert, fmt.Sprintf("%s\n\n%s", audit.Reason, "Further compression within this budget does not appear possible."))
		return
	}
	sess.SetAwaitingReplanConfirmation(false)
}

// modify dispatches one of the three modification intents: mediation when
// two or more participants are active, direct execution otherwise.
func (e *Executor) modify(ctx context.Context, sess *planstate.Session, participantID, displayName, utterance string, modType planstate.ModificationType) {
	if e.Participants.ActiveCount() >= 2 {
		sess.EnterMediation(participantID, modType, utterance, e.activeParticipantIDs())
		snap := sess.Snapshot()
		ch, err := e.Stages.StreamMediator(ctx, travel.MediatorInput{
			RoutePlan:           snap.RoutePlan,
			RestaurantPlan:      snap.RestaurantPlan,
			RequestingUser:      displayName,
			ModificationRequest: utterance,
			ActiveUsers:         e.activeDisplayNames(),
		})
		if err != nil {
			e.publishError(err)
			return
		}
		e.streamPlanner(ctx, plannerMediator, ch)
		return
	}
	e.executeModification(ctx, sess, modType, utterance)
}

// executeModification runs the modification directly — used both for the
// single-participant path and for replaying a mediation-approved request
// exactly as if a lone participant had just issued it.
func (e *Executor) executeModification(ctx context.Context, sess *planstate.Session, modType planstate.ModificationType, request string) {
	snap := sess.Snapshot()

	switch modType {
	case planstate.ModificationRoute:
		ch, err := e.Stages.StreamRoutePlanner(ctx, travel.RoutePlannerInput{
			UserInput:         request,
			PreviousRoutePlan: snap.RoutePlan,
			RevisionRequest:   "Change only the parts the request mentions; keep the rest verbatim.",
		})
		if err != nil {
			e.publishError(err)
			return
		}
		routeText, err := e.streamPlanner(ctx, plannerRoute, ch)
		if err != nil {
			return
		}
		audit := e.Stages.AuditBudget(ctx, request, fmtBudget(snap.Budget, snap.Currency), routeText, snap.RestaurantPlan)
		e.plannerMessage(plannerBudget, auditSummary(audit))
		if !audit.Passes() {
			e.emitBudgetAlert(sess, audit)
			return
		}
		sess.SetRoutePlan(routeText)
		sess.SetAwaitingReplanConfirmation(false)

	case planstate.ModificationRestaurant:
		ch, err := e.Stages.StreamRestaurantPlanner(ctx, request, snap.RoutePlan)
		if err != nil {
			e.publishError(err)
			return
		}
		restaurantText, err := e.streamPlanner(ctx, plannerRestaurant, ch)
		if err != nil {
			return
		}
		audit := e.Stages.AuditBudget(ctx, request, fmtBudget(snap.Budget, snap.Currency), snap.RoutePlan, restaurantText)
		e.plannerMessage(plannerBudget, auditSummary(audit))
		if !audit.Passes() {
			e.emitBudgetAlert(sess, audit)
			return
		}
		sess.SetRestaurantPlan(restaurantText)
		sess.SetAwaitingReplanConfirmation(false)

	case planstate.ModificationBudget:
		extraction := e.Stages.ExtractBudget(ctx, request)
		sess.SetBudget(extraction.Budget, extraction.Currency)
		snap = sess.Snapshot()
		audit := e.Stages.AuditBudget(ctx, request, fmtBudget(snap.Budget, snap.Currency), snap.RoutePlan, snap.RestaurantPlan)
		e.plannerMessage(plannerBudget, auditSummary(audit))
		if !audit.Passes() {
			// The budget stays persisted even on a failed audit — the
			// user's stated amount is explicit intent, and the replan
			// cycle needs the figure to revise against.
			e.emitBudgetAlert(sess, audit)
		}
	}
}

// beginConfirmation opens the finalization vote over every active
// participant, or emits an informational frame when there is no plan yet.
func (e *Executor) beginConfirmation(ctx context.Context, sess *planstate.Session) {
	snap := sess.Snapshot()
	if !snap.HasPlan() {
		e.plannerMessage(plannerConfirmation, "There's no plan yet to confirm.")
		return
	}
	sess.EnterConfirmation(e.activeParticipantIDs())

	budgetResult := "Budget check not performed yet"
	if snap.Budget != nil {
		budgetResult = "Budget: " + fmtBudget(snap.Budget, snap.Currency)
	}
	ch, err := e.Stages.StreamConfirmation(ctx, travel.ConfirmationInput{
		RoutePlan:         snap.RoutePlan,
		RestaurantPlan:    snap.RestaurantPlan,
		BudgetCheckResult: budgetResult,
		ActiveUsers:       e.activeDisplayNames(),
	})
	if err != nil {
		e.publishError(err)
		return
	}
	e.streamPlanner(ctx, plannerConfirmation, ch)
}

// emitBudgetAlert arms the replan gate and broadcasts the auditor's reason
// and suggestion with the fixed replan prompt.
func (e *Executor) emitBudgetAlert(sess *planstate.Session, audit travel.AuditResult) {
	sess.SetAwaitingReplanConfirmation(true)
	e.plannerMessage(plannerBudgetAlert, travel.BudgetAlertMessage(audit.Reason, audit.Suggestion))
}

func auditSummary(a travel.AuditResult) string {
	if a.Passes() {
		return "Budget check passed."
	}
	return fmt.Sprintf("Budget check failed (%s): %s", a.ErrorType, a.Reason)
}
