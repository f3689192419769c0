package notificationservice

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"unilance/providers"
	"unilance/providers/mocks"
)

const testAppURL = "http://localhost:3000"

func TestNotifyInsertsAndFansOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	data := map[string]string{
		"project_title": "Landing page",
		"student_name":  "Maya",
	}

	mockRepo := NewMockNotificationRepository(ctrl)
	mockPush := mocks.NewMockPushProvider(ctrl)
	mockMail := mocks.NewMockMailProvider(ctrl)
	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

	var inserted Notification
	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n Notification) (Notification, error) {
			inserted = n
			n.ID = uuid.New()
			return n, nil
		})
	mockRepo.EXPECT().TokensForUser(gomock.Any(), recipientID).
		Return([]string{"fcm-token-1", "fcm-token-dead"}, nil)
	mockPush.EXPECT().
		Send(gomock.Any(), []string{"fcm-token-1", "fcm-token-dead"}, "New application", `Maya applied to "Landing page"`, data).
		Return(providers.PushResult{Delivered: 1, Failed: 1, InvalidTokens: []string{"fcm-token-dead"}}, nil)
	mockRepo.EXPECT().DeleteTokens(gomock.Any(), []string{"fcm-token-dead"}).Return(nil)

	service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())
	saved, err := service.Notify(context.Background(), recipientID, KindApplicationReceived,
		"New application", `Maya applied to "Landing page"`, data)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, KindApplicationReceived, inserted.Kind)
	assert.Contains(t, string(inserted.Payload), `"project_title":"Landing page"`)
}

func TestNotifyAcceptedSendsMail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipientID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")
	data := map[string]string{
		"project_title": "Landing page",
		"student_name":  "Maya",
	}

	mockRepo := NewMockNotificationRepository(ctrl)
	mockPush := mocks.NewMockPushProvider(ctrl)
	mockMail := mocks.NewMockMailProvider(ctrl)
	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n Notification) (Notification, error) {
			n.ID = uuid.New()
			return n, nil
		})
	mockRepo.EXPECT().TokensForUser(gomock.Any(), recipientID).Return([]string{}, nil)
	mockAuth.EXPECT().AdminUserEmail(gomock.Any(), recipientID).Return("student@uni.test", nil)
	mockMail.EXPECT().
		Render("application-accepted", map[string]interface{}{
			"StudentName":  "Maya",
			"ProjectTitle": "Landing page",
			"AppURL":       testAppURL,
		}).
		Return("Your application was accepted", "<html>body</html>", nil)
	mockMail.EXPECT().
		Send(gomock.Any(), "student@uni.test", "Your application was accepted", "<html>body</html>").
		Return("mail-1", nil)

	service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())
	_, err := service.Notify(context.Background(), recipientID, KindApplicationAccepted,
		"Application accepted", `Your application for "Landing page" was accepted`, data)

	assert.NoError(t, err)
}

func TestNotifyDeliveryFailuresAreNotFatal(t *testing.T) {
	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	t.Run("push send failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := NewMockNotificationRepository(ctrl)
		mockPush := mocks.NewMockPushProvider(ctrl)
		mockMail := mocks.NewMockMailProvider(ctrl)
		mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n Notification) (Notification, error) {
				n.ID = uuid.New()
				return n, nil
			})
		mockRepo.EXPECT().TokensForUser(gomock.Any(), recipientID).
			Return([]string{"fcm-token-1"}, nil)
		mockPush.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(providers.PushResult{}, errors.New("fcm unavailable"))

		service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())
		saved, err := service.Notify(context.Background(), recipientID, KindApplicationReceived,
			"New application", "Maya applied", nil)

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, saved.ID)
	})

	t.Run("address lookup failure skips mail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := NewMockNotificationRepository(ctrl)
		mockPush := mocks.NewMockPushProvider(ctrl)
		mockMail := mocks.NewMockMailProvider(ctrl)
		mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n Notification) (Notification, error) {
				n.ID = uuid.New()
				return n, nil
			})
		mockRepo.EXPECT().TokensForUser(gomock.Any(), recipientID).Return(nil, nil)
		mockAuth.EXPECT().AdminUserEmail(gomock.Any(), recipientID).
			Return("", errors.New("admin api down"))

		service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())
		_, err := service.Notify(context.Background(), recipientID, KindApplicationAccepted,
			"Application accepted", "accepted", map[string]string{"project_title": "Landing page"})

		assert.NoError(t, err)
	})
}

func TestNotifyInsertFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recipientID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	mockRepo := NewMockNotificationRepository(ctrl)
	mockPush := mocks.NewMockPushProvider(ctrl)
	mockMail := mocks.NewMockMailProvider(ctrl)
	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		Return(Notification{}, errors.New("db error"))

	service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())
	_, err := service.Notify(context.Background(), recipientID, KindApplicationReceived,
		"New application", "Maya applied", nil)

	assert.Error(t, err)
}

func TestDeviceTokenPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	mockRepo := NewMockNotificationRepository(ctrl)
	mockPush := mocks.NewMockPushProvider(ctrl)
	mockMail := mocks.NewMockMailProvider(ctrl)
	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)

	mockRepo.EXPECT().UpsertDeviceToken(gomock.Any(), DeviceToken{
		Token:    "fcm-token-1",
		UserID:   userID,
		Platform: "android",
	}).Return(nil)
	mockRepo.EXPECT().DeleteDeviceToken(gomock.Any(), "fcm-token-1", userID).Return(nil)

	service := NewNotificationService(mockRepo, mockPush, mockMail, mockAuth, testAppURL, zap.NewNop())

	assert.NoError(t, service.RegisterDeviceToken(context.Background(), userID, RegisterTokenReq{
		Token:    "fcm-token-1",
		Platform: "android",
	}))
	assert.NoError(t, service.RemoveDeviceToken(context.Background(), userID, "fcm-token-1"))
}
