package notificationservice

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"unilance/models"
	"unilance/providers/mocks"
)

func recipientPrincipal(id uuid.UUID) models.Principal {
	return models.Principal{ID: id, Email: "student@uni.test", Role: models.StudentRole}
}

func authWith(ctrl *gomock.Controller, principal models.Principal, err error) *mocks.MockAuthMiddlewareService {
	auth := mocks.NewMockAuthMiddlewareService(ctrl)
	auth.EXPECT().GetPrincipalFromContext(gomock.Any()).Return(principal, err).AnyTimes()
	return auth
}

func TestListNotificationsHandler(t *testing.T) {
	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	t.Run("unread only narrows the filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := NewMockNotificationService(ctrl)
		mockService.EXPECT().
			List(gomock.Any(), recipientID, NotificationFilter{Unread: true, Limit: 5, Offset: 5}).
			Return([]Notification{{ID: uuid.New(), RecipientID: recipientID, Kind: KindApplicationReceived}}, 11, nil)

		handler := NewNotificationHandler(mockService, authWith(ctrl, recipientPrincipal(recipientID), nil))

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?unread=true&page=2&limit=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Data []Notification `json:"data"`
			Meta struct {
				Page  int `json:"page"`
				Limit int `json:"limit"`
				Total int `json:"total"`
			} `json:"meta"`
		}
		assert.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &res))
		assert.Len(t, res.Data, 1)
		assert.Equal(t, KindApplicationReceived, res.Data[0].Kind)
		assert.Equal(t, 2, res.Meta.Page)
		assert.Equal(t, 11, res.Meta.Total)
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := NewMockNotificationService(ctrl)
		handler := NewNotificationHandler(mockService, authWith(ctrl, models.Principal{}, errors.New("missing token")))

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMarkReadHandler(t *testing.T) {
	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	notificationID := uuid.MustParse("c0a8e1d2-3f4b-45c6-97d8-e9f0a1b2c3d4")

	tests := []struct {
		name           string
		path           string
		setupMocks     func(service *MockNotificationService)
		expectedStatus int
	}{
		{
			name: "marks own notification",
			path: "/api/notifications/" + notificationID.String() + "/read",
			setupMocks: func(service *MockNotificationService) {
				service.EXPECT().MarkRead(gomock.Any(), notificationID, recipientID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "someone else's notification reads as missing",
			path: "/api/notifications/" + notificationID.String() + "/read",
			setupMocks: func(service *MockNotificationService) {
				service.EXPECT().MarkRead(gomock.Any(), notificationID, recipientID).Return(sql.ErrNoRows)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid notification id",
			path:           "/api/notifications/not-a-uuid/read",
			setupMocks:     func(service *MockNotificationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockNotificationService(ctrl)
			tc.setupMocks(mockService)

			handler := NewNotificationHandler(mockService, authWith(ctrl, recipientPrincipal(recipientID), nil))

			router := chi.NewRouter()
			router.Post("/api/notifications/{id}/read", handler.MarkRead)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestMarkAllReadHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	mockService := NewMockNotificationService(ctrl)
	mockService.EXPECT().MarkAllRead(gomock.Any(), recipientID).Return(int64(3), nil)

	handler := NewNotificationHandler(mockService, authWith(ctrl, recipientPrincipal(recipientID), nil))

	rec := httptest.NewRecorder()
	handler.MarkAllRead(rec, httptest.NewRequest(http.MethodPost, "/api/notifications/read-all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var res map[string]int64
	assert.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(3), res["updated"])
}

func TestRegisterDeviceTokenHandler(t *testing.T) {
	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	tests := []struct {
		name           string
		body           string
		setupMocks     func(service *MockNotificationService)
		expectedStatus int
	}{
		{
			name: "registers a web token",
			body: `{"token":"fcm-token-1","platform":"web"}`,
			setupMocks: func(service *MockNotificationService) {
				service.EXPECT().
					RegisterDeviceToken(gomock.Any(), recipientID, RegisterTokenReq{Token: "fcm-token-1", Platform: "web"}).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown platform",
			body:           `{"token":"fcm-token-1","platform":"blackberry"}`,
			setupMocks:     func(service *MockNotificationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"token":`,
			setupMocks:     func(service *MockNotificationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockNotificationService(ctrl)
			tc.setupMocks(mockService)

			handler := NewNotificationHandler(mockService, authWith(ctrl, recipientPrincipal(recipientID), nil))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/device-tokens", bytes.NewBufferString(tc.body))
			handler.RegisterDeviceToken(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestRemoveDeviceTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	mockService := NewMockNotificationService(ctrl)
	mockService.EXPECT().RemoveDeviceToken(gomock.Any(), recipientID, "fcm-token-1").Return(nil)

	handler := NewNotificationHandler(mockService, authWith(ctrl, recipientPrincipal(recipientID), nil))

	router := chi.NewRouter()
	router.Delete("/api/device-tokens/{token}", handler.RemoveDeviceToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/device-tokens/fcm-token-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var res map[string]string
	assert.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "device token removed", res["message"])
}
