package types

import "time"

// ServiceInstance is a mock cloud resource shown on the console dashboard.
type ServiceInstance struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Status string  `json:"status"`
	Region string  `json:"region"`
	Cost   float64 `json:"cost"`
	Usage  int     `json:"usage"`
}

// QuickStat is a headline figure for the dashboard stat cards.
type QuickStat struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// BillingMonth is one point of the monthly cost history.
type BillingMonth struct {
	Month    string  `json:"month"`
	Cost     float64 `json:"cost"`
	Services int     `json:"services"`
}

// ServiceCost is one slice of the per-service cost breakdown.
type ServiceCost struct {
	Name       string  `json:"name"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// ResourceMetric is a resource-usage gauge (CPU, memory, storage, network).
type ResourceMetric struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Value       int    `json:"value"`
	Unit        string `json:"unit"`
	Status      string `json:"status"`
	Trend       string `json:"trend"`
	Description string `json:"description"`
}

// ResourceAlert is an operational alert shown next to the usage gauges.
type ResourceAlert struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// ActivityEvent is one entry of the console activity feed. Live entries
// are produced by the event bus; the rest is seeded demo data.
type ActivityEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	User        string    `json:"user,omitempty"`
	Service     string    `json:"service"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BillingReport describes a generated report export.
type BillingReport struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
