package orchestrator

import (
	"context"
	"time"
)

// BillRecord is a single bill-assistant record pending persistence.
type BillRecord struct {
	Topic        string
	Payer        string
	Participants []string
	Amount       float64
	Currency     string
	Note         string
	UserInput    string
}

// SavedBill is a BillRecord as persisted, with its assigned id and timestamp.
type SavedBill struct {
	ID int64
	BillRecord
	CreatedAt time.Time
}

// BillStore persists and queries bill-assistant records. Implemented by
// pkg/database against the bills table.
type BillStore interface {
	SaveBill(ctx context.Context, rec BillRecord) (int64, error)
	BillByID(ctx context.Context, id int64) (SavedBill, bool, error)
	BillsByPayer(ctx context.Context, payer string) ([]SavedBill, error)
	BillsByParticipant(ctx context.Context, participant string) ([]SavedBill, error)
}

// FinalizedPlan is a confirmed travel plan pending persistence.
type FinalizedPlan struct {
	SessionID      string
	RoutePlan      string
	RestaurantPlan string
	Budget         *float64
	Currency       string
	Destination    string
	Days           *int
	Participants   []string
}

// PlanStore persists finalized travel plans. Implemented by pkg/database
// against the travel_plans table. Finalization is append-only — there is
// no update method.
type PlanStore interface {
	SaveFinalizedPlan(ctx context.Context, p FinalizedPlan) (int64, error)
}
