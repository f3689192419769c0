package middlewares

import (
	"go.uber.org/zap"

	"unilance/providers"
)

// Service bundles the HTTP middleware shared by the API server and the
// function host. Both binaries wire the same implementations; only the
// chains they assemble differ.
type Service struct {
	cfg      *providers.Config
	logger   *zap.Logger
	redis    providers.RedisProvider
	sessions providers.SessionService
	auth     providers.PlatformAuthProvider
	limiter  *memoryLimiter
}

// NewMiddlewareService wires the middleware set. redis may be nil, in which
// case rate limiting falls back to the in-process counter.
func NewMiddlewareService(
	cfg *providers.Config,
	lg *zap.Logger,
	redis providers.RedisProvider,
	sessions providers.SessionService,
	auth providers.PlatformAuthProvider,
) *Service {
	return &Service{
		cfg:      cfg,
		logger:   lg,
		redis:    redis,
		sessions: sessions,
		auth:     auth,
		limiter:  newMemoryLimiter(),
	}
}
