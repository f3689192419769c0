package authprovider

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"unilance/providers"
)

type GoTrueProvider struct {
	client gotrue.Client
	admin  gotrue.Client
}

// NewAuthProvider builds the hosted identity client. The anon key is the
// public project key; per-user calls are re-bound with the caller's token.
// Admin lookups run on a second client bound to the service key.
func NewAuthProvider(cfg providers.PlatformConfig) providers.PlatformAuthProvider {
	client := gotrue.New(cfg.Ref, cfg.AnonKey).WithCustomGoTrueURL(cfg.AuthURL())
	admin := gotrue.New(cfg.Ref, cfg.ServiceKey).WithCustomGoTrueURL(cfg.AuthURL()).WithToken(cfg.ServiceKey)
	return &GoTrueProvider{client: client, admin: admin}
}

func (g *GoTrueProvider) SignUp(ctx context.Context, email, password string, meta map[string]interface{}) (*providers.Session, *providers.Identity, error) {
	resp, err := g.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     meta,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "platform signup")
	}

	// With confirmation enabled the platform answers with the bare user and
	// no tokens until the email is verified.
	if resp.Session.AccessToken == "" {
		identity := identityFromUser(resp.User)
		return nil, &identity, nil
	}

	session := sessionFrom(resp.Session)
	identity := identityFromUser(resp.Session.User)
	return &session, &identity, nil
}

func (g *GoTrueProvider) SignInWithPassword(ctx context.Context, email, password string) (*providers.Session, *providers.Identity, error) {
	resp, err := g.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "platform password grant")
	}
	session := sessionFrom(resp.Session)
	identity := identityFromUser(resp.User)
	return &session, &identity, nil
}

func (g *GoTrueProvider) RefreshSession(ctx context.Context, refreshToken string) (*providers.Session, error) {
	resp, err := g.client.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "platform refresh grant")
	}
	session := sessionFrom(resp.Session)
	return &session, nil
}

func (g *GoTrueProvider) UserFromToken(ctx context.Context, accessToken string) (*providers.Identity, error) {
	resp, err := g.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, errors.Wrap(err, "platform get user")
	}
	identity := identityFromUser(resp.User)
	return &identity, nil
}

func (g *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := g.client.WithToken(accessToken).Logout(); err != nil {
		return errors.Wrap(err, "platform logout")
	}
	return nil
}

func (g *GoTrueProvider) SendRecovery(ctx context.Context, email string) error {
	if err := g.client.Recover(types.RecoverRequest{Email: email}); err != nil {
		return errors.Wrap(err, "platform recover")
	}
	return nil
}

func (g *GoTrueProvider) AdminUserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	resp, err := g.admin.AdminGetUser(types.AdminGetUserRequest{UserID: userID})
	if err != nil {
		return "", errors.Wrap(err, "platform admin get user")
	}
	return resp.Email, nil
}

func sessionFrom(s types.Session) providers.Session {
	return providers.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
	}
}

func identityFromUser(u types.User) providers.Identity {
	return providers.Identity{
		ID:       u.ID,
		Email:    u.Email,
		Metadata: u.UserMetadata,
	}
}
