package middlewares

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"unilance/providers"
)

const (
	sessionAccessKey  = "access_token"
	sessionRefreshKey = "refresh_token"
)

var ErrNoSession = errors.New("no session")

// CookieSessionService keeps the platform tokens in an encrypted cookie so
// browser clients never hold them in script-readable storage.
type CookieSessionService struct {
	store      *sessions.CookieStore
	cookieName string
}

func NewSessionService(cfg providers.SessionConfig) providers.SessionService {
	keyPairs := [][]byte{[]byte(cfg.AuthKey)}
	if cfg.EncryptionKey != "" {
		keyPairs = append(keyPairs, []byte(cfg.EncryptionKey))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieSessionService{store: store, cookieName: cfg.CookieName}
}

func (c *CookieSessionService) Save(w http.ResponseWriter, r *http.Request, session *providers.Session) error {
	s, _ := c.store.Get(r, c.cookieName)
	s.Values[sessionAccessKey] = session.AccessToken
	s.Values[sessionRefreshKey] = session.RefreshToken
	return s.Save(r, w)
}

func (c *CookieSessionService) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := c.store.Get(r, c.cookieName)
	s.Options.MaxAge = -1
	s.Values = make(map[interface{}]interface{})
	return s.Save(r, w)
}

func (c *CookieSessionService) Tokens(r *http.Request) (string, string, error) {
	s, err := c.store.Get(r, c.cookieName)
	if err != nil {
		return "", "", err
	}
	access, _ := s.Values[sessionAccessKey].(string)
	refresh, _ := s.Values[sessionRefreshKey].(string)
	if access == "" {
		return "", "", ErrNoSession
	}
	return access, refresh, nil
}
