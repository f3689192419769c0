package accountservice

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"unilance/providers"
	"unilance/providers/mocks"
)

func testSession() *providers.Session {
	return &providers.Session{
		AccessToken:  "access-1",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		RefreshToken: "refresh-1",
	}
}

func testIdentity() *providers.Identity {
	return &providers.Identity{
		ID:    uuid.MustParse("7b7ec547-5b3f-4f6d-9a61-0f2e50fbe123"),
		Email: "student@uni.test",
		Metadata: map[string]interface{}{
			"role":         "student",
			"display_name": "Test Student",
		},
	}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(service *MockAccountService, sessions *mocks.MockSessionService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "register with immediate session",
			body: `{"email":"student@uni.test","password":"longenough","role":"student","display_name":"Test Student"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).Return(testSession(), testIdentity(), nil)
				sessions.EXPECT().Save(gomock.Any(), gomock.Any(), testSession()).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   "access-1",
		},
		{
			name: "register pending email confirmation",
			body: `{"email":"student@uni.test","password":"longenough","role":"student","display_name":"Test Student"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, testIdentity(), nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   "confirmation email sent",
		},
		{
			name:           "password too short",
			body:           `{"email":"student@uni.test","password":"short","role":"student","display_name":"Test Student"}`,
			setupMocks:     func(service *MockAccountService, sessions *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown role",
			body:           `{"email":"student@uni.test","password":"longenough","role":"admin","display_name":"Test Student"}`,
			setupMocks:     func(service *MockAccountService, sessions *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field rejected",
			body:           `{"email":"student@uni.test","password":"longenough","role":"student","display_name":"x","is_admin":true}`,
			setupMocks:     func(service *MockAccountService, sessions *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "platform rejects the signup",
			body: `{"email":"student@uni.test","password":"longenough","role":"student","display_name":"Test Student"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("email already registered"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "registration failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAccountService(ctrl)
			mockSessions := mocks.NewMockSessionService(ctrl)
			tc.setupMocks(mockService, mockSessions)

			handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(service *MockAccountService, sessions *mocks.MockSessionService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "login success",
			body: `{"email":"student@uni.test","password":"longenough"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Login(gomock.Any(), LoginReq{Email: "student@uni.test", Password: "longenough"}).
					Return(testSession(), testIdentity(), nil)
				sessions.EXPECT().Save(gomock.Any(), gomock.Any(), testSession()).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "refresh-1",
		},
		{
			name: "bad credentials stay generic",
			body: `{"email":"student@uni.test","password":"wrong-password"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("invalid grant"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid email or password",
		},
		{
			name:           "missing password",
			body:           `{"email":"student@uni.test"}`,
			setupMocks:     func(service *MockAccountService, sessions *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAccountService(ctrl)
			mockSessions := mocks.NewMockSessionService(ctrl)
			tc.setupMocks(mockService, mockSessions)

			handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tc.expectedBody)
			}

			if tc.expectedStatus == http.StatusOK {
				var res SessionRes
				assert.NoError(t, jsoniter.NewDecoder(rec.Body).Decode(&res))
				assert.Equal(t, "access-1", res.AccessToken)
				assert.Equal(t, "student", res.User.Role)
			}
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(service *MockAccountService, sessions *mocks.MockSessionService)
		expectedStatus int
	}{
		{
			name: "refresh token from body",
			body: `{"refresh_token":"refresh-1"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Refresh(gomock.Any(), "refresh-1").Return(testSession(), nil)
				sessions.EXPECT().Save(gomock.Any(), gomock.Any(), testSession()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "refresh token from cookie session",
			body: "",
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				sessions.EXPECT().Tokens(gomock.Any()).Return("stale-access", "refresh-2", nil)
				service.EXPECT().Refresh(gomock.Any(), "refresh-2").Return(testSession(), nil)
				sessions.EXPECT().Save(gomock.Any(), gomock.Any(), testSession()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "no refresh token anywhere",
			body: "",
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				sessions.EXPECT().Tokens(gomock.Any()).Return("", "", errors.New("no session"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "upstream rejects the token",
			body: `{"refresh_token":"revoked"}`,
			setupMocks: func(service *MockAccountService, sessions *mocks.MockSessionService) {
				service.EXPECT().Refresh(gomock.Any(), "revoked").Return(nil, errors.New("invalid grant"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAccountService(ctrl)
			mockSessions := mocks.NewMockSessionService(ctrl)
			tc.setupMocks(mockService, mockSessions)

			handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.Refresh(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountService(ctrl)
	mockSessions := mocks.NewMockSessionService(ctrl)

	mockService.EXPECT().Logout(gomock.Any(), "access-1").Return(nil)
	mockSessions.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

	handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer access-1")
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")
}

func TestLogoutClearsSessionDespiteUpstreamFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAccountService(ctrl)
	mockSessions := mocks.NewMockSessionService(ctrl)

	mockSessions.EXPECT().Tokens(gomock.Any()).Return("access-1", "refresh-1", nil)
	mockService.EXPECT().Logout(gomock.Any(), "access-1").Return(errors.New("upstream down"))
	mockSessions.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

	handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoverHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "recovery sent", body: `{"email":"student@uni.test"}`, wantStatus: http.StatusAccepted},
		{name: "upstream failure still answers 202", body: `{"email":"student@uni.test"}`, serviceErr: errors.New("smtp down"), wantStatus: http.StatusAccepted},
		{name: "invalid email", body: `{"email":"not-an-email"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAccountService(ctrl)
			mockSessions := mocks.NewMockSessionService(ctrl)
			if tc.wantStatus == http.StatusAccepted {
				mockService.EXPECT().Recover(gomock.Any(), "student@uni.test").Return(tc.serviceErr)
			}

			handler := NewAccountHandler(mockService, mockSessions, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/recover", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			handler.Recover(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
