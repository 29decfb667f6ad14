package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AdminAccount is a dashboard operator. Accounts are provisioned via the
// CLI or directly in the database; this service only reads them and
// touches last_login on a successful sign-in.
type AdminAccount struct {
	bun.BaseModel `bun:"table:admin_accounts"`

	ID           int64      `bun:",pk,autoincrement"`
	Username     string     `bun:"username"`
	PasswordHash string     `bun:"password_hash"`
	Email        string     `bun:"email,nullzero"`
	Role         string     `bun:"role,nullzero"`
	LastLogin    *time.Time `bun:"last_login,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
