package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONBody(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		var p payload
		require.NoError(t, ParseJSONBody(r, &p))
		assert.Equal(t, "a@b.co", p.Email)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","admin":true}`))
		var p payload
		assert.Error(t, ParseJSONBody(r, &p))
	})
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusForbidden, errors.New("boom"), "forbidden")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, jsoniter.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "forbidden", body["error"])
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		expect PageQuery
	}{
		{"defaults", "", PageQuery{Page: 1, Limit: 20, Offset: 0}},
		{"explicit", "?page=3&limit=10", PageQuery{Page: 3, Limit: 10, Offset: 20}},
		{"limit clamped", "?limit=500", PageQuery{Page: 1, Limit: 100, Offset: 0}},
		{"garbage ignored", "?page=x&limit=-2", PageQuery{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/projects"+tt.query, nil)
			assert.Equal(t, tt.expect, PageParams(r))
		})
	}
}

func TestAvatarChecks(t *testing.T) {
	assert.True(t, IsAllowedAvatarType("image/png"))
	assert.False(t, IsAllowedAvatarType("image/gif"))
	assert.Equal(t, ".jpg", AvatarExtension("image/jpeg"))
	assert.Equal(t, "", AvatarExtension("text/html"))
}
