package providers

import "strings"

// Config is populated from the environment once at startup and handed to
// every provider through ConfigProvider.
type Config struct {
	Server    ServerConfig    `env:", prefix=SERVER_"`
	Platform  PlatformConfig  `env:", prefix=PLATFORM_"`
	Database  DatabaseConfig  `env:", prefix=DB_"`
	Redis     RedisConfig     `env:", prefix=REDIS_"`
	Sessions  SessionConfig   `env:", prefix=SESSION_"`
	Mail      MailConfig      `env:", prefix=MAIL_"`
	Push      PushConfig      `env:", prefix=PUSH_"`
	Functions FunctionsConfig `env:", prefix=FUNCTIONS_"`
}

type ServerConfig struct {
	Port           string   `env:"PORT, default=8080"`
	Env            string   `env:"ENV, default=dev"`
	AppURL         string   `env:"APP_URL, default=http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`
	AuthRateLimit  int      `env:"AUTH_RATE_LIMIT, default=10"`
	APIRateLimit   int      `env:"API_RATE_LIMIT, default=120"`
}

// PlatformConfig points at the hosted project that owns identity, storage,
// realtime and the database.
type PlatformConfig struct {
	URL           string `env:"URL, required"`
	Ref           string `env:"REF"`
	AnonKey       string `env:"ANON_KEY, required"`
	ServiceKey    string `env:"SERVICE_KEY, required"`
	JWTSecret     string `env:"JWT_SECRET, required"`
	StorageBucket string `env:"STORAGE_BUCKET, default=avatars"`
}

func (p PlatformConfig) AuthURL() string {
	return p.URL + "/auth/v1"
}

func (p PlatformConfig) StorageURL() string {
	return p.URL + "/storage/v1"
}

func (p PlatformConfig) RealtimeURL() string {
	u := strings.Replace(p.URL, "https://", "wss://", 1)
	u = strings.Replace(u, "http://", "ws://", 1)
	return u + "/realtime/v1/websocket"
}

type DatabaseConfig struct {
	// Pooled connection string issued by the platform.
	URL string `env:"URL, required"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB, default=0"`
}

type SessionConfig struct {
	AuthKey       string `env:"AUTH_KEY, required"`
	EncryptionKey string `env:"ENCRYPTION_KEY"`
	CookieName    string `env:"COOKIE_NAME, default=ul_session"`
	Secure        bool   `env:"COOKIE_SECURE, default=false"`
}

type MailConfig struct {
	APIURL string `env:"API_URL, default=https://api.resend.com/emails"`
	APIKey string `env:"API_KEY"`
	From   string `env:"FROM, default=UniLance <no-reply@unilance.app>"`
}

type PushConfig struct {
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

type FunctionsConfig struct {
	Port   string `env:"PORT, default=8081"`
	Secret string `env:"SECRET"`
}
