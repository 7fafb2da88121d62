package handlers

import "time"

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// StatusResponse reports the relay's in-memory footprint.
type StatusResponse struct {
	LiveEntries          int `json:"live_entries"`
	TTLSeconds           int `json:"ttl_seconds"`
	SweepIntervalSeconds int `json:"sweep_interval_seconds"`
	UptimeSeconds        int `json:"uptime_seconds"`
}
