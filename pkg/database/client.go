// Package database is the persistence adapter: a SQLite-backed
// implementation of orchestrator.BillStore and orchestrator.PlanStore,
// plus the read-side list/lookup queries pkg/api needs for the /bills and
// /travel-plans routes. The client opens, pings, migrates, and exposes the
// underlying *sql.DB for health checks.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
)

// ErrNotFound is returned by single-record lookups that find nothing.
var ErrNotFound = errors.New("database: not found")

// Client wraps a *sql.DB opened against a SQLite database, with the bill and
// travel-plan persistence methods orchestrator.Executor depends on.
type Client struct {
	db *sql.DB
}

// NewClient opens databaseURL (see ParseDatabaseURL), verifies connectivity,
// and applies any pending migrations.
func NewClient(ctx context.Context, databaseURL string) (*Client, error) {
	driverName, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driverName, err)
	}

	// mattn/go-sqlite3 serializes writes at the file level; a single
	// connection avoids SQLITE_BUSY errors from concurrent pool members
	// fighting over the same write lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	c := &Client{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// DB exposes the underlying *sql.DB for health checks and ad-hoc queries.
func (c *Client) DB() *sql.DB { return c.db }

// Close closes the underlying connection pool.
func (c *Client) Close() error { return c.db.Close() }

// SaveBill inserts rec and returns its assigned id.
func (c *Client) SaveBill(ctx context.Context, rec orchestrator.BillRecord) (int64, error) {
	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return 0, fmt.Errorf("database: marshal bill participants: %w", err)
	}

	res, err := c.db.ExecContext(ctx, `
		INSERT INTO bills (topic, payer, participants, amount, currency, note, user_input, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Topic, rec.Payer, string(participants), rec.Amount, rec.Currency, rec.Note, rec.UserInput, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("database: insert bill: %w", err)
	}
	return res.LastInsertId()
}

// BillByID looks up a single bill by id.
func (c *Client) BillByID(ctx context.Context, id int64) (orchestrator.SavedBill, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, topic, payer, participants, amount, currency, note, user_input, created_at
		FROM bills WHERE id = ?`, id)

	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return orchestrator.SavedBill{}, false, nil
	}
	if err != nil {
		return orchestrator.SavedBill{}, false, err
	}
	return bill, true, nil
}

// BillsByPayer lists bills where payer matches exactly, newest first.
func (c *Client) BillsByPayer(ctx context.Context, payer string) ([]orchestrator.SavedBill, error) {
	return c.queryBills(ctx, `
		SELECT id, topic, payer, participants, amount, currency, note, user_input, created_at
		FROM bills WHERE payer = ? ORDER BY created_at DESC`, payer)
}

// BillsByParticipant lists bills whose participants array contains
// participant, newest first. Participants are stored as a JSON array, so
// membership is tested with SQLite's json_each table-valued function rather
// than a LIKE scan.
func (c *Client) BillsByParticipant(ctx context.Context, participant string) ([]orchestrator.SavedBill, error) {
	return c.queryBills(ctx, `
		SELECT b.id, b.topic, b.payer, b.participants, b.amount, b.currency, b.note, b.user_input, b.created_at
		FROM bills b, json_each(b.participants) je
		WHERE je.value = ?
		ORDER BY b.created_at DESC`, participant)
}

// ListBills returns every bill, newest first.
func (c *Client) ListBills(ctx context.Context) ([]orchestrator.SavedBill, error) {
	return c.queryBills(ctx, `
		SELECT id, topic, payer, participants, amount, currency, note, user_input, created_at
		FROM bills ORDER BY created_at DESC`)
}

func (c *Client) queryBills(ctx context.Context, query string, args ...any) ([]orchestrator.SavedBill, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query bills: %w", err)
	}
	defer rows.Close()

	var out []orchestrator.SavedBill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bill)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (orchestrator.SavedBill, error) {
	var (
		bill         orchestrator.SavedBill
		participants string
	)
	if err := row.Scan(&bill.ID, &bill.Topic, &bill.Payer, &participants, &bill.Amount, &bill.Currency, &bill.Note, &bill.UserInput, &bill.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orchestrator.SavedBill{}, err
		}
		return orchestrator.SavedBill{}, fmt.Errorf("database: scan bill: %w", err)
	}
	if err := json.Unmarshal([]byte(participants), &bill.Participants); err != nil {
		return orchestrator.SavedBill{}, fmt.Errorf("database: unmarshal bill participants: %w", err)
	}
	return bill, nil
}

// SavedTravelPlan is a FinalizedPlan as persisted, with its assigned id and
// timestamps.
type SavedTravelPlan struct {
	ID int64
	orchestrator.FinalizedPlan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveFinalizedPlan inserts p as an append-only record — finalization
// never updates a prior row — and returns its assigned id.
func (c *Client) SaveFinalizedPlan(ctx context.Context, p orchestrator.FinalizedPlan) (int64, error) {
	participants, err := json.Marshal(p.Participants)
	if err != nil {
		return 0, fmt.Errorf("database: marshal plan participants: %w", err)
	}

	now := time.Now().UTC()
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO travel_plans (session_id, route_plan, restaurant_plan, budget, currency, destination, days, participants, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SessionID, p.RoutePlan, p.RestaurantPlan, p.Budget, p.Currency, p.Destination, p.Days, string(participants), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("database: insert travel plan: %w", err)
	}
	return res.LastInsertId()
}

// TravelPlanByID looks up a single finalized plan by id.
func (c *Client) TravelPlanByID(ctx context.Context, id int64) (SavedTravelPlan, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, session_id, route_plan, restaurant_plan, budget, currency, destination, days, participants, created_at, updated_at
		FROM travel_plans WHERE id = ?`, id)

	plan, err := scanTravelPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedTravelPlan{}, false, nil
	}
	if err != nil {
		return SavedTravelPlan{}, false, err
	}
	return plan, true, nil
}

// TravelPlansBySession lists finalized plans for sessionID, newest first.
func (c *Client) TravelPlansBySession(ctx context.Context, sessionID string) ([]SavedTravelPlan, error) {
	return c.queryTravelPlans(ctx, `
		SELECT id, session_id, route_plan, restaurant_plan, budget, currency, destination, days, participants, created_at, updated_at
		FROM travel_plans WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
}

// ListTravelPlans returns every finalized plan, newest first.
func (c *Client) ListTravelPlans(ctx context.Context) ([]SavedTravelPlan, error) {
	return c.queryTravelPlans(ctx, `
		SELECT id, session_id, route_plan, restaurant_plan, budget, currency, destination, days, participants, created_at, updated_at
		FROM travel_plans ORDER BY created_at DESC`)
}

func (c *Client) queryTravelPlans(ctx context.Context, query string, args ...any) ([]SavedTravelPlan, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: query travel plans: %w", err)
	}
	defer rows.Close()

	var out []SavedTravelPlan
	for rows.Next() {
		plan, err := scanTravelPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, plan)
	}
	return out, rows.Err()
}

func scanTravelPlan(row rowScanner) (SavedTravelPlan, error) {
	var (
		plan         SavedTravelPlan
		participants string
	)
	if err := row.Scan(&plan.ID, &plan.SessionID, &plan.RoutePlan, &plan.RestaurantPlan, &plan.Budget, &plan.Currency, &plan.Destination, &plan.Days, &participants, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedTravelPlan{}, err
		}
		return SavedTravelPlan{}, fmt.Errorf("database: scan travel plan: %w", err)
	}
	if err := json.Unmarshal([]byte(participants), &plan.Participants); err != nil {
		return SavedTravelPlan{}, fmt.Errorf("database: unmarshal plan participants: %w", err)
	}
	return plan, nil
}
