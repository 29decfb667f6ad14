package adminauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightwealth/summit/internal/cache"
	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/entity"
	adminrepo "github.com/brightwealth/summit/internal/repository/admin"
	"github.com/brightwealth/summit/pkg/errorbank"
)

type fakeAccounts struct {
	accounts    map[string]*entity.AdminAccount
	lastLoginAt time.Time
}

func (f *fakeAccounts) GetByUsername(ctx context.Context, username string) (*entity.AdminAccount, error) {
	account, ok := f.accounts[username]
	if !ok {
		return nil, adminrepo.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccounts) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	f.lastLoginAt = at
	return nil
}

func newTestService(t *testing.T, accounts *fakeAccounts) *Service {
	t.Helper()
	cfg := config.Config{}
	cfg.Admin.SessionTTL = 24 * time.Hour

	svc := NewService(Params{
		Accounts: accounts,
		Sessions: cache.NewMemoryStore(),
		Config:   cfg,
		Logger:   zap.NewNop(),
	})
	return svc
}

func accountWithHash(hash string) *fakeAccounts {
	return &fakeAccounts{accounts: map[string]*entity.AdminAccount{
		"admin": {ID: 1, Username: "admin", PasswordHash: hash, Email: "admin@example.com"},
	}}
}

func TestLoginWithSHA256Digest(t *testing.T) {
	accounts := accountWithHash(HashPassword("s3cret"))
	svc := newTestService(t, accounts)

	session, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, "admin", session.Role)
	assert.False(t, accounts.lastLoginAt.IsZero())

	got, err := svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Username, got.Username)
}

func TestLoginDigestCaseInsensitive(t *testing.T) {
	svc := newTestService(t, accountWithHash(strings.ToUpper(HashPassword("s3cret"))))

	_, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newTestService(t, accountWithHash(string(hash)))

	_, err = svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newTestService(t, accountWithHash(HashPassword("s3cret")))

	_, wrongPassword := svc.Login(context.Background(), "admin", "nope")
	_, unknownUser := svc.Login(context.Background(), "ghost", "nope")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, errorbank.From(wrongPassword).Message(), errorbank.From(unknownUser).Message())
	assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(wrongPassword).Kind())

	// Repeated wrong attempts keep failing identically.
	_, again := svc.Login(context.Background(), "admin", "nope")
	assert.Equal(t, errorbank.From(wrongPassword).Message(), errorbank.From(again).Message())

	// And the right password still works afterwards.
	_, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
}

func TestLoginRejectsPlaintextCredential(t *testing.T) {
	// A stored plaintext password is a provisioning mistake; it must
	// never match, not even when the submitted password equals it.
	svc := newTestService(t, accountWithHash("s3cret"))

	_, err := svc.Login(context.Background(), "admin", "s3cret")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(err).Kind())
}

func TestSessionExpiryBoundary(t *testing.T) {
	svc := newTestService(t, accountWithHash(HashPassword("s3cret")))

	loginTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := loginTime
	svc.now = func() time.Time { return now }

	session, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, loginTime.Add(24*time.Hour), svc.ExpiresAt(session))

	now = loginTime.Add(23*time.Hour + 59*time.Minute)
	_, err = svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)

	now = loginTime.Add(24*time.Hour + time.Minute)
	_, err = svc.Authenticate(context.Background(), session.Token)
	require.Error(t, err)
	assert.Equal(t, "session expired", errorbank.From(err).Message())

	// The expired session is purged, so even a rolled-back clock will
	// not revive it.
	now = loginTime
	_, err = svc.Authenticate(context.Background(), session.Token)
	require.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t, accountWithHash(HashPassword("s3cret")))

	session, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	svc.Logout(context.Background(), session.Token)
	_, err = svc.Authenticate(context.Background(), session.Token)
	require.Error(t, err)

	// Unknown tokens are a no-op.
	svc.Logout(context.Background(), "bogus")
}

func TestAuthenticateEmptyToken(t *testing.T) {
	svc := newTestService(t, accountWithHash(HashPassword("s3cret")))

	_, err := svc.Authenticate(context.Background(), "")
	require.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	digest := HashPassword("s3cret")
	assert.Len(t, digest, 64)
	assert.Equal(t, strings.ToLower(digest), digest)
	assert.Equal(t, digest, HashPassword("s3cret"))
	assert.NotEqual(t, digest, HashPassword("other"))
}
