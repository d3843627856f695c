package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nimbusconsole/apiserver/internal/dashboard"
	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/internal/reports"
	"github.com/nimbusconsole/apiserver/internal/store"
	"github.com/nimbusconsole/apiserver/types"
)

// DashboardHandler serves the mock console data and report exports.
type DashboardHandler struct {
	catalog *dashboard.Catalog
	feed    *dashboard.ActivityFeed
	reports *reports.Service
	bus     *events.Bus
}

// NewDashboardHandler constructs a handler with the provided services.
func NewDashboardHandler(catalog *dashboard.Catalog, feed *dashboard.ActivityFeed, reportService *reports.Service, bus *events.Bus) *DashboardHandler {
	return &DashboardHandler{
		catalog: catalog,
		feed:    feed,
		reports: reportService,
		bus:     bus,
	}
}

// DashboardRouter registers dashboard routes. Callers are expected to
// mount it behind the auth middleware.
func DashboardRouter(r chi.Router, catalog *dashboard.Catalog, feed *dashboard.ActivityFeed, reportService *reports.Service, bus *events.Bus) {
	handler := NewDashboardHandler(catalog, feed, reportService, bus)

	r.Get("/services", handler.Services)
	r.Get("/stats", handler.Stats)
	r.Get("/billing", handler.Billing)
	r.Get("/usage", handler.Usage)
	r.Get("/activity", handler.Activity)
	r.Post("/reports", handler.CreateReport)
	r.Get("/reports/{reportID}", handler.DownloadReport)
}

func (h *DashboardHandler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ServicesResponse{Services: h.catalog.Services()})
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{Stats: h.catalog.QuickStats()})
}

func (h *DashboardHandler) Billing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BillingResponse{
		History:   h.catalog.BillingHistory(),
		Breakdown: h.catalog.ServiceBreakdown(),
	})
}

func (h *DashboardHandler) Usage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UsageResponse{
		Metrics: h.catalog.ResourceMetrics(),
		Alerts:  h.catalog.ResourceAlerts(),
	})
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ActivityResponse{Activities: h.feed.List()})
}

// CreateReport generates a billing CSV export and returns its id.
func (h *DashboardHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	if claims, err := claimsFromContext(r.Context()); err == nil && h.bus != nil {
		_ = h.bus.PublishActivity(r.Context(), types.ActivityEvent{
			Type:        "info",
			Title:       "Billing report generated",
			Description: "CSV export " + report.ID,
			User:        claims.Name,
			Service:     "Cost Explorer",
		})
	}

	writeJSON(w, http.StatusCreated, report)
}

// DownloadReport streams a previously generated export.
func (h *DashboardHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	reader, err := h.reports.Open(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to open report")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

type ServicesResponse struct {
	Services []types.ServiceInstance `json:"services"`
}

type StatsResponse struct {
	Stats []types.QuickStat `json:"stats"`
}

type BillingResponse struct {
	History   []types.BillingMonth `json:"history"`
	Breakdown []types.ServiceCost  `json:"breakdown"`
}

type UsageResponse struct {
	Metrics []types.ResourceMetric `json:"metrics"`
	Alerts  []types.ResourceAlert  `json:"alerts"`
}

type ActivityResponse struct {
	Activities []types.ActivityEvent `json:"activities"`
}
