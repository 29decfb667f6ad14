package reporting

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
	"github.com/brightwealth/summit/internal/service/checkout"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var csvHeader = []string{
	"Order Reference", "Type", "Customer Name", "Email", "Phone",
	"Quantity", "Amount", "Status", "Date",
}

// ExportCSV writes the orders matching filter to w as CSV, one row per
// order, newest first.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter orderrepo.Filter) error {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.ExportCSV")
	defer span.End()

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to list orders for export", zap.Error(err))
		return errorbank.Internal("failed to export orders")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errorbank.Internal("failed to write export")
	}
	for i := range orders {
		if err := cw.Write(csvRow(&orders[i])); err != nil {
			return errorbank.Internal("failed to write export")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errorbank.Internal("failed to write export")
	}
	return nil
}

// ExportFilename names the download after the current date.
func (s *Service) ExportFilename() string {
	return fmt.Sprintf("orders-%s.csv", s.now().UTC().Format("2006-01-02"))
}

func csvRow(order *entity.Order) []string {
	productLabel := "Ticket"
	if order.IsBook() {
		productLabel = "Book"
	}
	return []string{
		order.Reference,
		productLabel,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		fmt.Sprintf("%d", order.Quantity),
		"£" + checkout.FormatAmount(order.AmountTotal),
		order.Status,
		order.CreatedAt.UTC().Format("2006-01-02"),
	}
}
