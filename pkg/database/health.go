package database

import (
	"context"
	"database/sql"
	"time"
)

// HealthStatus reports whether the database connection is reachable and
// its current pool statistics.
type HealthStatus struct {
	Healthy      bool   `json:"healthy"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	OpenConns    int    `json:"open_connections"`
	InUseConns   int    `json:"in_use_connections"`
	IdleConns    int    `json:"idle_connections"`
}

// Health pings db and reports the round trip time plus pool stats.
func Health(ctx context.Context, db *sql.DB) (*HealthStatus, error) {
	start := time.Now()
	err := db.PingContext(ctx)
	elapsed := time.Since(start)

	stats := db.Stats()
	status := &HealthStatus{
		Healthy:      err == nil,
		ResponseTime: elapsed.Milliseconds(),
		OpenConns:    stats.OpenConnections,
		InUseConns:   stats.InUse,
		IdleConns:    stats.Idle,
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status, nil
}
