package api

import "time"

// UserResponse is the body of GET|POST /user.
type UserResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	ModelConfigured bool   `json:"model_configured"`
}

// BillResponse is one bill record as returned by the bills endpoints.
type BillResponse struct {
	ID           int64     `json:"id"`
	Topic        string    `json:"topic"`
	Payer        string    `json:"payer"`
	Participants []string  `json:"participants"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Note         string    `json:"note,omitempty"`
	UserInput    string    `json:"user_input,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateBillsResponse is the body returned by POST /bills.
type CreateBillsResponse struct {
	BillIDs []int64 `json:"bill_ids"`
}

// TravelPlanResponse is one finalized plan as returned by the travel-plans
// endpoints.
type TravelPlanResponse struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	RoutePlan      string    `json:"route_plan"`
	RestaurantPlan string    `json:"restaurant_plan"`
	Budget         *float64  `json:"budget,omitempty"`
	Currency       string    `json:"currency"`
	Destination    string    `json:"destination,omitempty"`
	Days           *int      `json:"days,omitempty"`
	Participants   []string  `json:"participants"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
