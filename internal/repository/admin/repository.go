package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightwealth/summit/internal/database"
	"github.com/brightwealth/summit/internal/entity"
)

var repoTracer = otel.Tracer("github.com/brightwealth/summit/repository/admin")

// ErrNotFound is returned when no account matches the username.
var ErrNotFound = errors.New("admin account not found")

// Repository reads dashboard operator accounts. Accounts are provisioned
// out of band; only last_login is ever written here.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires the admin account repository.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// GetByUsername returns the account for a username. The column carries a
// unique index, so at most one row can match.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entity.AdminAccount, error) {
	ctx, span := repoTracer.Start(ctx, "AdminRepository.GetByUsername", trace.WithAttributes(attribute.String("admin.username", username)))
	defer span.End()

	account := new(entity.AdminAccount)
	err := r.reader.NewSelect().Model(account).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return account, nil
}

// TouchLastLogin stamps the account's last successful sign-in.
func (r *Repository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, span := repoTracer.Start(ctx, "AdminRepository.TouchLastLogin", trace.WithAttributes(attribute.Int64("admin.id", id)))
	defer span.End()

	_, err := r.writer.NewUpdate().
		Model((*entity.AdminAccount)(nil)).
		Set("last_login = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Create inserts a new account. Used by the seeder and CLI provisioning.
func (r *Repository) Create(ctx context.Context, account *entity.AdminAccount) error {
	if account == nil {
		return errors.New("nil account")
	}
	ctx, span := repoTracer.Start(ctx, "AdminRepository.Create", trace.WithAttributes(attribute.String("admin.username", account.Username)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}
