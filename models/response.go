package models

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"` // "healthy" or "degraded"
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
	Version  string `json:"version"`
}

// SessionResponse is the response for GET /api/v1/cache/:session.
type SessionResponse struct {
	URLs    []string       `json:"urls"`
	Results []ParsedFields `json:"results"`
}
