// Package dashboard serves the mock console data behind the
// authenticated dashboard endpoints. The catalog is static demo data;
// only the activity feed receives live entries.
package dashboard

import "github.com/nimbusconsole/apiserver/types"

// Catalog exposes the static dashboard datasets.
type Catalog struct{}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Services lists the mock cloud resources shown as service cards.
func (c *Catalog) Services() []types.ServiceInstance {
	return []types.ServiceInstance{
		{ID: "i-1234567890", Name: "Web Server", Type: "EC2", Status: "running", Region: "us-east-1", Cost: 45.67, Usage: 67},
		{ID: "s3-bucket-1", Name: "Static Assets", Type: "S3", Status: "running", Region: "us-west-2", Cost: 12.34, Usage: 34},
		{ID: "rds-prod-db", Name: "Production DB", Type: "RDS", Status: "running", Region: "us-east-1", Cost: 89.12, Usage: 78},
		{ID: "lambda-api", Name: "API Functions", Type: "Lambda", Status: "running", Region: "us-east-1", Cost: 23.45, Usage: 45},
		{ID: "i-0987654321", Name: "Database Server", Type: "EC2", Status: "stopped", Region: "eu-west-1", Cost: 0.00, Usage: 0},
		{ID: "lambda-worker", Name: "Background Jobs", Type: "Lambda", Status: "pending", Region: "us-west-2", Cost: 8.90, Usage: 12},
	}
}

// QuickStats returns the headline stat cards.
func (c *Catalog) QuickStats() []types.QuickStat {
	return []types.QuickStat{
		{Label: "Active Services", Value: "12", Change: "+2"},
		{Label: "Monthly Cost", Value: "$167", Change: "-11%"},
		{Label: "IAM Users", Value: "8", Change: "+1"},
		{Label: "Security Alerts", Value: "3", Change: "-2"},
	}
}

// BillingHistory returns the monthly cost series.
func (c *Catalog) BillingHistory() []types.BillingMonth {
	return []types.BillingMonth{
		{Month: "Jan", Cost: 120, Services: 8},
		{Month: "Feb", Cost: 135, Services: 9},
		{Month: "Mar", Cost: 98, Services: 7},
		{Month: "Apr", Cost: 156, Services: 11},
		{Month: "May", Cost: 189, Services: 12},
		{Month: "Jun", Cost: 167, Services: 10},
	}
}

// ServiceBreakdown returns the per-service share of the current bill.
func (c *Catalog) ServiceBreakdown() []types.ServiceCost {
	return []types.ServiceCost{
		{Name: "EC2", Cost: 89.45, Percentage: 53.6},
		{Name: "S3", Cost: 23.12, Percentage: 13.8},
		{Name: "RDS", Cost: 34.67, Percentage: 20.8},
		{Name: "Lambda", Cost: 19.76, Percentage: 11.8},
	}
}

// ResourceMetrics returns the usage gauges.
func (c *Catalog) ResourceMetrics() []types.ResourceMetric {
	return []types.ResourceMetric{
		{ID: "cpu", Name: "CPU Usage", Value: 67, Unit: "%", Status: "normal", Trend: "+5.2%", Description: "Average across all instances"},
		{ID: "memory", Name: "Memory Usage", Value: 82, Unit: "%", Status: "warning", Trend: "+12.1%", Description: "8.2 GB of 10 GB used"},
		{ID: "storage", Name: "Storage", Value: 45, Unit: "%", Status: "normal", Trend: "+2.8%", Description: "450 GB of 1 TB used"},
		{ID: "network", Name: "Network I/O", Value: 34, Unit: "Mbps", Status: "normal", Trend: "-1.4%", Description: "Inbound/Outbound traffic"},
	}
}

// ResourceAlerts returns the alerts shown next to the gauges.
func (c *Catalog) ResourceAlerts() []types.ResourceAlert {
	return []types.ResourceAlert{
		{ID: 1, Type: "warning", Message: "Memory usage approaching limit on web-server-01", Time: "2 min ago"},
		{ID: 2, Type: "info", Message: "Auto-scaling triggered for production cluster", Time: "15 min ago"},
		{ID: 3, Type: "error", Message: "Database connection timeout in us-west-2", Time: "1 hour ago"},
	}
}
