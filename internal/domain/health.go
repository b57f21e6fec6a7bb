package domain

// ServiceHealth reports the status of one dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // healthy, degraded, unhealthy
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

// HealthStatus is the aggregate health report for /healthz.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}
