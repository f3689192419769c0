package middlewares

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"unilance/utils"
)

const (
	CSRFCookieName = "ul_csrf"
	CSRFHeaderName = "X-CSRF-Token"
	csrfTokenTTL   = 12 * time.Hour
	csrfTokenBytes = 32
)

type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// IssueCSRFToken mints the double-submit token. The cookie is deliberately
// not HttpOnly: the SPA reads it and echoes it back in the X-CSRF-Token
// header on state-changing requests.
func (s *Service) IssueCSRFToken(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to issue csrf token")
		return
	}
	token := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(csrfTokenTTL),
		Secure:   s.cfg.Sessions.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondJSON(w, http.StatusOK, CSRFResponse{CSRFToken: token})
}

// CSRF enforces the double-submit check on state-changing requests that ride
// on cookies. Bearer requests carry no ambient credentials and pass through.
func (s *Service) CSRF() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if bearerToken(r) != "" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				utils.RespondError(w, http.StatusForbidden, err, "invalid csrf token")
				return
			}
			header := r.Header.Get(CSRFHeaderName)
			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				utils.RespondError(w, http.StatusForbidden, errors.New("csrf token mismatch"), "invalid csrf token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
