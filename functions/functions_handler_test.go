package functions

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
	notificationservice "unilance/services/notification"
)

func TestNotifyFunction(t *testing.T) {
	userID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	tests := []struct {
		name           string
		body           string
		setupMocks     func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider)
		expectedStatus int
		expectedBody   map[string]int
	}{
		{
			name: "delivers to every device",
			body: `{"user_id":"` + userID.String() + `","title":"New application","body":"Maya applied","data":{"project_id":"p1"}}`,
			setupMocks: func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider) {
				tokens.EXPECT().TokensForUser(gomock.Any(), userID).
					Return([]string{"fcm-token-1", "fcm-token-2"}, nil)
				push.EXPECT().
					Send(gomock.Any(), []string{"fcm-token-1", "fcm-token-2"},
						"New application", "Maya applied", map[string]string{"project_id": "p1"}).
					Return(providers.PushResult{Delivered: 2}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]int{"delivered": 2, "failed": 0},
		},
		{
			name: "prunes unregistered tokens",
			body: `{"user_id":"` + userID.String() + `","title":"New application"}`,
			setupMocks: func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider) {
				tokens.EXPECT().TokensForUser(gomock.Any(), userID).
					Return([]string{"fcm-token-1", "fcm-token-dead"}, nil)
				push.EXPECT().Send(gomock.Any(), gomock.Any(), "New application", "", gomock.Nil()).
					Return(providers.PushResult{Delivered: 1, Failed: 1, InvalidTokens: []string{"fcm-token-dead"}}, nil)
				tokens.EXPECT().DeleteTokens(gomock.Any(), []string{"fcm-token-dead"}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]int{"delivered": 1, "failed": 1},
		},
		{
			name: "no devices answers zeros",
			body: `{"user_id":"` + userID.String() + `","title":"New application"}`,
			setupMocks: func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider) {
				tokens.EXPECT().TokensForUser(gomock.Any(), userID).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]int{"delivered": 0, "failed": 0},
		},
		{
			name:           "missing title",
			body:           `{"user_id":"` + userID.String() + `"}`,
			setupMocks:     func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "push outage",
			body: `{"user_id":"` + userID.String() + `","title":"New application"}`,
			setupMocks: func(tokens *notificationservice.MockNotificationRepository, push *mocks.MockPushProvider) {
				tokens.EXPECT().TokensForUser(gomock.Any(), userID).
					Return([]string{"fcm-token-1"}, nil)
				push.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(providers.PushResult{}, errors.New("fcm unreachable"))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTokens := notificationservice.NewMockNotificationRepository(ctrl)
			mockPush := mocks.NewMockPushProvider(ctrl)
			tc.setupMocks(mockTokens, mockPush)

			handler := NewHandler(mockTokens, mockPush, mocks.NewMockMailProvider(ctrl), zap.NewNop())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/functions/v1/notify", bytes.NewBufferString(tc.body))
			handler.Notify(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != nil {
				var res map[string]int
				assert.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &res))
				assert.Equal(t, tc.expectedBody, res)
			}
		})
	}
}

func TestSendEmailFunction(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(mail *mocks.MockMailProvider)
		expectedStatus int
		expectedID     string
	}{
		{
			name: "relays rendered mail",
			body: `{"to":"student@uni.test","template":"welcome","data":{"DisplayName":"Maya"}}`,
			setupMocks: func(mail *mocks.MockMailProvider) {
				mail.EXPECT().Render("welcome", map[string]interface{}{"DisplayName": "Maya"}).
					Return("Welcome to UniLance, Maya", "<p>Hi Maya</p>", nil)
				mail.EXPECT().Send(gomock.Any(), "student@uni.test", "Welcome to UniLance, Maya", "<p>Hi Maya</p>").
					Return("email-id-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedID:     "email-id-1",
		},
		{
			name: "unknown template",
			body: `{"to":"student@uni.test","template":"password-reset"}`,
			setupMocks: func(mail *mocks.MockMailProvider) {
				mail.EXPECT().Render("password-reset", gomock.Nil()).
					Return("", "", errors.New(`unknown email template "password-reset"`))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid recipient",
			body:           `{"to":"not-an-email","template":"welcome"}`,
			setupMocks:     func(mail *mocks.MockMailProvider) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "upstream failure",
			body: `{"to":"student@uni.test","template":"welcome"}`,
			setupMocks: func(mail *mocks.MockMailProvider) {
				mail.EXPECT().Render("welcome", gomock.Nil()).
					Return("Welcome to UniLance, ", "<p>Hi</p>", nil)
				mail.EXPECT().Send(gomock.Any(), "student@uni.test", gomock.Any(), gomock.Any()).
					Return("", errors.New("email api: unexpected status 500"))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockMail := mocks.NewMockMailProvider(ctrl)
			tc.setupMocks(mockMail)

			handler := NewHandler(
				notificationservice.NewMockNotificationRepository(ctrl),
				mocks.NewMockPushProvider(ctrl),
				mockMail,
				zap.NewNop(),
			)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-email", bytes.NewBufferString(tc.body))
			handler.SendEmail(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedID != "" {
				var res map[string]string
				assert.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &res))
				assert.Equal(t, tc.expectedID, res["id"])
			}
		})
	}
}
