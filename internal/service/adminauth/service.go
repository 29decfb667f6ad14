package adminauth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightwealth/summit/internal/cache"
	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/entity"
	adminrepo "github.com/brightwealth/summit/internal/repository/admin"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/brightwealth/summit/service/adminauth")

const sessionKeyPrefix = "admin_session:"

// sha256HexPattern recognises a stored SHA-256 digest: exactly 64 hex
// characters, either case.
var sha256HexPattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

// ErrBadCredentialFormat marks an account whose stored credential is
// neither a bcrypt hash nor a SHA-256 hex digest. That is a provisioning
// mistake, never a login path.
var ErrBadCredentialFormat = errors.New("stored credential is not a recognised hash")

// Session is the server-held proof that a dashboard operator signed in.
type Session struct {
	Token     string    `json:"token"`
	AccountID int64     `json:"account_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"login_time"`
}

// AccountReader is the slice of the admin repository this service needs.
type AccountReader interface {
	GetByUsername(ctx context.Context, username string) (*entity.AdminAccount, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// Service authenticates dashboard operators and manages their sessions.
// Sessions live in the cache store under a random token with the
// configured TTL; expiry is additionally checked lazily on each access.
type Service struct {
	accounts AccountReader
	sessions cache.Store
	ttl      time.Duration
	logger   *zap.Logger

	// now is swappable in tests.
	now func() time.Time
	// newToken is swappable in tests.
	newToken func() string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Accounts AccountReader
	Sessions cache.Store
	Config   config.Config
	Logger   *zap.Logger
}

// NewService wires a new admin auth Service.
func NewService(p Params) *Service {
	return &Service{
		accounts: p.Accounts,
		sessions: p.Sessions,
		ttl:      p.Config.Admin.SessionTTL,
		logger:   p.Logger,
		now:      time.Now,
		newToken: newSessionToken,
	}
}

// Login verifies the submitted credentials and mints a session. All
// failure modes return the same generic unauthorized error so callers
// cannot distinguish an unknown user from a wrong password.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	ctx, span := serviceTracer.Start(ctx, "AdminAuthService.Login", trace.WithAttributes(attribute.String("admin.username", username)))
	defer span.End()

	denied := errorbank.Unauthorized("invalid username or password")

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, adminrepo.ErrNotFound) {
			s.logger.Warn("admin lookup failed", zap.Error(err))
		}
		return nil, denied
	}

	if err := verifyCredential(account.PasswordHash, password); err != nil {
		if errors.Is(err, ErrBadCredentialFormat) {
			s.logger.Error("admin account has an unusable stored credential; re-provision it",
				zap.String("username", account.Username))
		}
		return nil, denied
	}

	loginTime := s.now().UTC()
	if err := s.accounts.TouchLastLogin(ctx, account.ID, loginTime); err != nil {
		// Login still succeeds; the stamp is advisory.
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	session := &Session{
		Token:     s.newToken(),
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      roleOrDefault(account.Role),
		LoginTime: loginTime,
	}
	if err := s.persist(ctx, session); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return nil, errorbank.Internal("failed to create session", errorbank.WithCause(err))
	}

	return session, nil
}

// Authenticate resolves a token into its session. An expired session is
// purged as a side effect and reported as unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	ctx, span := serviceTracer.Start(ctx, "AdminAuthService.Authenticate")
	defer span.End()

	if token == "" {
		return nil, errorbank.Unauthorized("authentication required")
	}

	raw, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, errorbank.Unauthorized("authentication required")
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		_ = s.sessions.Delete(ctx, sessionKeyPrefix+token)
		return nil, errorbank.Unauthorized("authentication required")
	}

	if s.now().Sub(session.LoginTime) >= s.ttl {
		_ = s.sessions.Delete(ctx, sessionKeyPrefix+token)
		return nil, errorbank.Unauthorized("session expired")
	}

	return &session, nil
}

// Logout purges the session unconditionally. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionKeyPrefix+token); err != nil {
		s.logger.Warn("failed to delete session", zap.Error(err))
	}
}

// ExpiresAt reports when a session stops being accepted.
func (s *Service) ExpiresAt(session *Session) time.Time {
	return session.LoginTime.Add(s.ttl)
}

func (s *Service) persist(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, sessionKeyPrefix+session.Token, raw, s.ttl)
}

func roleOrDefault(role string) string {
	if role == "" {
		return "admin"
	}
	return role
}

// verifyCredential accepts two stored formats: a bcrypt hash (preferred)
// or a SHA-256 hex digest compared case-insensitively. Anything else,
// including a plaintext password left over from a manual setup, is a
// provisioning error and never matches.
func verifyCredential(stored, password string) error {
	stored = strings.TrimSpace(stored)

	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	}

	if sha256HexPattern.MatchString(stored) {
		digest := HashPassword(password)
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1 {
			return nil
		}
		return errors.New("digest mismatch")
	}

	return ErrBadCredentialFormat
}

// HashPassword returns the lowercase SHA-256 hex digest of password.
// Kept exported for the CLI provisioning helper; bcrypt is preferred for
// new accounts.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
