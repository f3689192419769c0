package providers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"unilance/models"
)

type ConfigProvider interface {
	LoadEnv() error
	GetConfig() *Config
}

type DBProvider interface {
	DB() *sqlx.DB
	Close() error
}

type RedisProvider interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

type ZapLoggerProvider interface {
	InitLogger()
	SyncLogger()
	GetLogger() *zap.Logger
}

// Session carries the tokens the platform issues on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Identity is the platform's record of an authenticated user.
type Identity struct {
	ID       uuid.UUID              `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// PlatformAuthProvider delegates every credential operation to the hosted
// identity service. Nothing behind it stores passwords or tokens locally.
type PlatformAuthProvider interface {
	SignUp(ctx context.Context, email, password string, meta map[string]interface{}) (*Session, *Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, *Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	UserFromToken(ctx context.Context, accessToken string) (*Identity, error)
	SignOut(ctx context.Context, accessToken string) error
	SendRecovery(ctx context.Context, email string) error
	// AdminUserEmail resolves any user's address server-side. Profiles never
	// store emails, so transactional mail has to ask the identity service.
	AdminUserEmail(ctx context.Context, userID uuid.UUID) (string, error)
}

type StorageProvider interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) error
	Remove(ctx context.Context, bucket, objectPath string) error
	PublicURL(bucket, objectPath string) string
}

// PushResult reports a multicast outcome. InvalidTokens lists device tokens
// the push service no longer recognizes, so callers can prune them.
type PushResult struct {
	Delivered     int
	Failed        int
	InvalidTokens []string
}

type PushProvider interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (PushResult, error)
}

type MailProvider interface {
	Render(template string, data map[string]interface{}) (subject string, html string, err error)
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// SessionService stores platform sessions in an encrypted cookie for browser
// clients. API clients carry bearer tokens and never touch it.
type SessionService interface {
	Save(w http.ResponseWriter, r *http.Request, session *Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
	Tokens(r *http.Request) (access string, refresh string, err error)
}

type AuthMiddlewareService interface {
	JWTAuthMiddleware() func(http.Handler) http.Handler
	RequireRole(roles ...models.Role) func(http.Handler) http.Handler
	GetPrincipalFromContext(r *http.Request) (models.Principal, error)
}
