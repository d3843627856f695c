// Package reports generates billing report exports and keeps them in
// object storage.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nimbusconsole/apiserver/internal/dashboard"
	"github.com/nimbusconsole/apiserver/internal/storage"
	"github.com/nimbusconsole/apiserver/types"
)

const reportContentType = "text/csv"

// Service writes billing CSV exports to object storage and streams
// them back by id.
type Service struct {
	storage storage.ObjectStorage
	catalog *dashboard.Catalog
}

func NewService(store storage.ObjectStorage, catalog *dashboard.Catalog) *Service {
	return &Service{storage: store, catalog: catalog}
}

// Generate renders the billing data as CSV, uploads it, and returns
// the report descriptor.
func (s *Service) Generate(ctx context.Context) (types.BillingReport, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write([]string{"section", "name", "cost", "services", "percentage"})
	for _, month := range s.catalog.BillingHistory() {
		_ = writer.Write([]string{
			"history",
			month.Month,
			strconv.FormatFloat(month.Cost, 'f', 2, 64),
			strconv.Itoa(month.Services),
			"",
		})
	}
	for _, svc := range s.catalog.ServiceBreakdown() {
		_ = writer.Write([]string{
			"breakdown",
			svc.Name,
			strconv.FormatFloat(svc.Cost, 'f', 2, 64),
			"",
			strconv.FormatFloat(svc.Percentage, 'f', 1, 64),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return types.BillingReport{}, err
	}

	report := types.BillingReport{
		ID:          uuid.New().String(),
		ContentType: reportContentType,
		CreatedAt:   time.Now(),
	}

	key := objectKey(report.ID)
	size := int64(buf.Len())
	if err := s.storage.Put(ctx, key, &buf, size, reportContentType); err != nil {
		return types.BillingReport{}, fmt.Errorf("store report: %w", err)
	}
	return report, nil
}

// Open streams a previously generated report.
func (s *Service) Open(ctx context.Context, reportID string) (io.ReadCloser, error) {
	return s.storage.Get(ctx, objectKey(reportID))
}

func objectKey(reportID string) string {
	return fmt.Sprintf("reports/billing-%s.csv", reportID)
}
