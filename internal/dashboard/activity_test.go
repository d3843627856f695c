package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nimbusconsole/apiserver/internal/events"
	"github.com/nimbusconsole/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityFeed_RecordPrepends(t *testing.T) {
	t.Parallel()

	feed := NewActivityFeed()
	seeded := len(feed.List())

	feed.Record(types.ActivityEvent{Type: "info", Title: "Console sign-in", Service: "IAM"})

	entries := feed.List()
	require.Len(t, entries, seeded+1)
	assert.Equal(t, "Console sign-in", entries[0].Title)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].OccurredAt.IsZero())
}

func TestActivityFeed_Capped(t *testing.T) {
	t.Parallel()

	feed := NewActivityFeed()
	for i := 0; i < maxFeedEntries*2; i++ {
		feed.Record(types.ActivityEvent{Type: "info", Title: fmt.Sprintf("event %d", i), Service: "IAM"})
	}

	entries := feed.List()
	assert.Len(t, entries, maxFeedEntries)
	// Newest first.
	assert.Equal(t, fmt.Sprintf("event %d", maxFeedEntries*2-1), entries[0].Title)
}

func TestActivityFeed_Consume(t *testing.T) {
	t.Parallel()

	feed := NewActivityFeed()
	bus := events.New(events.NewMemoryBackend())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = feed.Consume(ctx, bus)
	}()

	event := types.ActivityEvent{Type: "success", Title: "New account registered", Service: "IAM"}
	require.Eventually(t, func() bool {
		if err := bus.PublishActivity(ctx, event); err != nil {
			return false
		}
		return feed.List()[0].Title == "New account registered"
	}, time.Second, 10*time.Millisecond)
}

func TestCatalog_StaticData(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	assert.Len(t, catalog.Services(), 6)
	assert.Len(t, catalog.QuickStats(), 4)
	assert.Len(t, catalog.BillingHistory(), 6)
	assert.Len(t, catalog.ServiceBreakdown(), 4)
	assert.Len(t, catalog.ResourceMetrics(), 4)
	assert.Len(t, catalog.ResourceAlerts(), 3)
}
