package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/types"
)

// maxFeedEntries bounds the in-memory feed.
const maxFeedEntries = 50

// ActivityFeed collects console activity, newest first. It starts with
// seeded demo entries and appends live events from the bus.
type ActivityFeed struct {
	mu      sync.RWMutex
	entries []types.ActivityEvent
}

func NewActivityFeed() *ActivityFeed {
	return &ActivityFeed{entries: seedActivities()}
}

// Record prepends an event to the feed, trimming the oldest entries.
func (f *ActivityFeed) Record(event types.ActivityEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]types.ActivityEvent{event}, f.entries...)
	if len(f.entries) > maxFeedEntries {
		f.entries = f.entries[:maxFeedEntries]
	}
}

// List returns the feed, newest first.
func (f *ActivityFeed) List() []types.ActivityEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]types.ActivityEvent, len(f.entries))
	copy(out, f.entries)
	return out
}

// Consume subscribes the feed to the activity channel. It blocks until
// the context is canceled, so callers run it in its own goroutine.
func (f *ActivityFeed) Consume(ctx context.Context, bus *events.Bus) error {
	return bus.SubscribeActivity(ctx, func(ctx context.Context, event types.ActivityEvent) error {
		f.Record(event)
		return nil
	})
}

func seedActivities() []types.ActivityEvent {
	now := time.Now()
	return []types.ActivityEvent{
		{ID: "1", Type: "success", Title: "EC2 instance launched successfully", Description: "web-server-03 is now running in us-east-1", User: "Sarah Chen", Service: "EC2", OccurredAt: now.Add(-2 * time.Minute)},
		{ID: "2", Type: "info", Title: "Auto-scaling group updated", Description: "Minimum instances increased from 2 to 3", User: "System", Service: "Auto Scaling", OccurredAt: now.Add(-15 * time.Minute)},
		{ID: "3", Type: "warning", Title: "High memory usage detected", Description: "Database server using 85% memory", Service: "CloudWatch", OccurredAt: now.Add(-time.Hour)},
		{ID: "4", Type: "success", Title: "Backup completed", Description: "prod-database backup finished successfully", User: "Automated", Service: "RDS", OccurredAt: now.Add(-2 * time.Hour)},
		{ID: "5", Type: "info", Title: "New IAM user created", Description: "developer-access role assigned to john.doe", User: "Sarah Chen", Service: "IAM", OccurredAt: now.Add(-3 * time.Hour)},
		{ID: "6", Type: "success", Title: "Cost optimization applied", Description: "Saved $234 by right-sizing instances", User: "Cost Optimizer", Service: "Cost Explorer", OccurredAt: now.Add(-4 * time.Hour)},
	}
}
