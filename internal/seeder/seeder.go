package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/database"
	"github.com/brightwealth/summit/internal/entity"
	"github.com/brightwealth/summit/internal/service/adminauth"
)

// Module provides the Seeder to Fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders if they are missing.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{
			Reference:     "BWP-SEED0001",
			CustomerName:  "Jane Example",
			CustomerEmail: "jane@example.com",
			CustomerPhone: "+44 7700 900001",
			Quantity:      2,
			AmountTotal:   2000,
			ProductType:   entity.ProductTicket,
			Status:        entity.OrderStatusCompleted,
			EmailStatus:   entity.EmailStatusSent,
			CreatedAt:     now.Add(-48 * time.Hour),
		},
		{
			Reference:     "BWP-SEED0002",
			CustomerName:  "Sam Example",
			CustomerEmail: "sam@example.com",
			Quantity:      1,
			AmountTotal:   1000,
			ProductType:   entity.ProductTicket,
			Status:        entity.OrderStatusPending,
			CreatedAt:     now.Add(-2 * time.Hour),
		},
		{
			Reference:        "BOOK-SEED0001",
			CustomerName:     "Alex Example",
			CustomerEmail:    "alex@example.com",
			Quantity:         1,
			AmountTotal:      2398,
			ProductType:      entity.ProductBook,
			Status:           entity.OrderStatusCompleted,
			ShippingAddress:  "1 Sample Street",
			ShippingCity:     "London",
			ShippingPostcode: "SW1A 1AA",
			EmailStatus:      entity.EmailStatusFailed,
			CreatedAt:        now.Add(-24 * time.Hour),
		},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (reference) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}

// Admin seeds a dashboard operator for local/dev. The password must be
// changed before anything public sees this database.
func (s *Seeder) Admin(ctx context.Context) error {
	account := entity.AdminAccount{
		Username:     "admin",
		PasswordHash: adminauth.HashPassword("change-me"),
		Email:        "admin@example.com",
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.NewInsert().Model(&account).
		On("CONFLICT (username) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded admin account", zap.String("username", account.Username))
	}
	return nil
}
