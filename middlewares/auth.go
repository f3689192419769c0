package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unilance/models"
	"unilance/utils"
)

var errTokenExpired = errors.New("access token expired")

// JWTAuthMiddleware authenticates either an Authorization bearer token or the
// session cookie. Cookie sessions with an expired access token are refreshed
// against the platform in place; bearer clients own their refresh flow.
func (s *Service) JWTAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCookie := false
			refreshToken := ""

			accessToken := bearerToken(r)
			if accessToken == "" {
				access, refresh, err := s.sessions.Tokens(r)
				if err != nil || access == "" {
					utils.RespondError(w, http.StatusUnauthorized, errors.New("missing access token"), "missing access token")
					return
				}
				accessToken, refreshToken, fromCookie = access, refresh, true
			}

			principal, err := s.parseAccessToken(accessToken)
			if errors.Is(err, errTokenExpired) && fromCookie && refreshToken != "" {
				session, refreshErr := s.auth.RefreshSession(r.Context(), refreshToken)
				if refreshErr != nil {
					utils.RespondError(w, http.StatusUnauthorized, refreshErr, "session expired")
					return
				}
				if saveErr := s.sessions.Save(w, r, session); saveErr != nil {
					utils.RespondError(w, http.StatusInternalServerError, saveErr, "failed to persist session")
					return
				}
				principal, err = s.parseAccessToken(session.AccessToken)
			}
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches a principal when the request carries valid
// credentials and passes anonymous requests through untouched. Public reads
// sit behind it so a signed-in caller sees their own non-public rows.
func (s *Service) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := bearerToken(r)
			if accessToken == "" {
				if access, _, err := s.sessions.Tokens(r); err == nil {
					accessToken = access
				}
			}
			if accessToken != "" {
				if principal, err := s.parseAccessToken(accessToken); err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), principal))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := s.GetPrincipalFromContext(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !allowed[principal.Role] {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseAccessToken validates a platform-issued HS256 token locally. The
// platform signs with the project JWT secret and sets aud=authenticated; the
// product role travels in user_metadata.
func (s *Service) parseAccessToken(tokenStr string) (models.Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.Platform.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience("authenticated"))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, errTokenExpired
		}
		return models.Principal{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return models.Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return models.Principal{}, errors.New("invalid 'sub' claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return models.Principal{}, fmt.Errorf("invalid 'sub' claim: %w", err)
	}

	email, _ := claims["email"].(string)

	var role models.Role
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if r, ok := meta["role"].(string); ok {
			role = models.Role(r)
		}
	}
	if !role.Valid() {
		return models.Principal{}, errors.New("missing platform role claim")
	}

	return models.Principal{ID: userID, Email: email, Role: role}, nil
}

// bearerToken accepts both "Bearer <token>" and a raw token in the header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(h)
}
