package reports

import (
	"context"
	"io"
	"testing"

	"github.com/nimbusconsole/apiserver/internal/dashboard"
	"github.com/nimbusconsole/apiserver/internal/storage"
	"github.com/nimbusconsole/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(storage.NewMemoryStorage("test-bucket"), dashboard.NewCatalog())
}

func TestGenerateAndOpen(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	report, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, report.ID)
	assert.Equal(t, "text/csv", report.ContentType)

	reader, err := svc.Open(ctx, report.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "section,name,cost,services,percentage")
	assert.Contains(t, content, "history,Jan,120.00,8,")
	assert.Contains(t, content, "breakdown,EC2,89.45,,53.6")
}

func TestGenerate_UniqueIDs(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Generate(ctx)
	require.NoError(t, err)
	second, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := newTestService().Open(context.Background(), "no-such-report")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
