package middlewares

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"unilance/models"
)

type contextKey string

const (
	principalContextKey contextKey = "principal_key"
	requestIDContextKey contextKey = "request_id_key"
)

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func (s *Service) GetPrincipalFromContext(r *http.Request) (models.Principal, error) {
	principal, ok := r.Context().Value(principalContextKey).(models.Principal)
	if !ok {
		return models.Principal{}, errors.New("principal not found in context")
	}
	return principal, nil
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
