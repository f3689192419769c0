package accountservice

import (
	"context"

	"go.uber.org/zap"

	"unilance/logger"
	"unilance/providers"
)

// AccountService fronts the hosted identity service. No credentials are
// stored or verified locally.
type AccountService interface {
	Register(ctx context.Context, req RegisterReq) (*providers.Session, *providers.Identity, error)
	Login(ctx context.Context, req LoginReq) (*providers.Session, *providers.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*providers.Session, error)
	Logout(ctx context.Context, accessToken string) error
	Recover(ctx context.Context, email string) error
}

type accountService struct {
	auth   providers.PlatformAuthProvider
	logger *zap.Logger
}

func NewAccountService(auth providers.PlatformAuthProvider, lg *zap.Logger) AccountService {
	return &accountService{auth: auth, logger: lg}
}

func (s *accountService) Register(ctx context.Context, req RegisterReq) (*providers.Session, *providers.Identity, error) {
	s.logger.Info("registering account", logger.Redacted("request", map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
		"role":     req.Role,
	}))

	meta := map[string]interface{}{
		"role":         req.Role,
		"display_name": req.DisplayName,
	}
	return s.auth.SignUp(ctx, req.Email, req.Password, meta)
}

func (s *accountService) Login(ctx context.Context, req LoginReq) (*providers.Session, *providers.Identity, error) {
	return s.auth.SignInWithPassword(ctx, req.Email, req.Password)
}

func (s *accountService) Refresh(ctx context.Context, refreshToken string) (*providers.Session, error) {
	return s.auth.RefreshSession(ctx, refreshToken)
}

func (s *accountService) Logout(ctx context.Context, accessToken string) error {
	return s.auth.SignOut(ctx, accessToken)
}

func (s *accountService) Recover(ctx context.Context, email string) error {
	return s.auth.SendRecovery(ctx, email)
}
