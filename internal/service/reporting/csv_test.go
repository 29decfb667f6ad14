package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

func TestExportCSV(t *testing.T) {
	orders := &fakeOrderAdmin{listed: []entity.Order{
		{
			Reference:     "BWP-4F21A9C3",
			CustomerName:  "Jane Example",
			CustomerEmail: "jane@example.com",
			CustomerPhone: "+44 7700 900001",
			Quantity:      2,
			AmountTotal:   2000,
			ProductType:   entity.ProductTicket,
			Status:        entity.OrderStatusCompleted,
			CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Reference:     "BOOK-00112233",
			CustomerName:  "Sam Example",
			CustomerEmail: "sam@example.com",
			Quantity:      1,
			AmountTotal:   2398,
			ProductType:   entity.ProductBook,
			Status:        entity.OrderStatusPending,
			CreatedAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(orders, &fakeAnalytics{})

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, orderrepo.Filter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", orders.lastFilter.Status)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"BWP-4F21A9C3", "Ticket", "Jane Example", "jane@example.com",
		"+44 7700 900001", "2", "£20.00", "completed", "2026-03-01",
	}, records[1])
	assert.Equal(t, "Book", records[2][1])
	assert.Equal(t, "£23.98", records[2][6])
	assert.Equal(t, "", records[2][4])
}

func TestExportFilename(t *testing.T) {
	svc := newTestService(&fakeOrderAdmin{}, &fakeAnalytics{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC) }

	assert.Equal(t, "orders-2026-03-01.csv", svc.ExportFilename())
}
