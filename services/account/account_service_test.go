package accountservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"unilance/providers"
	"unilance/providers/mocks"
)

func TestAccountServiceRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
	service := NewAccountService(mockAuth, zap.NewNop())

	var capturedMeta map[string]interface{}
	mockAuth.EXPECT().
		SignUp(gomock.Any(), "student@uni.test", "longenough", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, meta map[string]interface{}) (*providers.Session, *providers.Identity, error) {
			capturedMeta = meta
			return testSession(), testIdentity(), nil
		})

	session, identity, err := service.Register(context.Background(), RegisterReq{
		Email:       "student@uni.test",
		Password:    "longenough",
		Role:        "student",
		DisplayName: "Test Student",
	})

	assert.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "student@uni.test", identity.Email)
	assert.Equal(t, "student", capturedMeta["role"])
	assert.Equal(t, "Test Student", capturedMeta["display_name"])
}

func TestAccountServiceRegisterUpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
	service := NewAccountService(mockAuth, zap.NewNop())

	mockAuth.EXPECT().
		SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("email already registered"))

	_, _, err := service.Register(context.Background(), RegisterReq{
		Email:       "student@uni.test",
		Password:    "longenough",
		Role:        "student",
		DisplayName: "Test Student",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestAccountServiceLogin(t *testing.T) {
	tests := []struct {
		name        string
		mockSetup   func(auth *mocks.MockPlatformAuthProvider)
		expectedErr string
	}{
		{
			name: "valid credentials",
			mockSetup: func(auth *mocks.MockPlatformAuthProvider) {
				auth.EXPECT().SignInWithPassword(gomock.Any(), "student@uni.test", "longenough").
					Return(testSession(), testIdentity(), nil)
			},
		},
		{
			name: "upstream rejects credentials",
			mockSetup: func(auth *mocks.MockPlatformAuthProvider) {
				auth.EXPECT().SignInWithPassword(gomock.Any(), "student@uni.test", "longenough").
					Return(nil, nil, errors.New("invalid grant"))
			},
			expectedErr: "invalid grant",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
			tc.mockSetup(mockAuth)
			service := NewAccountService(mockAuth, zap.NewNop())

			session, identity, err := service.Login(context.Background(), LoginReq{
				Email:    "student@uni.test",
				Password: "longenough",
			})

			if tc.expectedErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "access-1", session.AccessToken)
			assert.Equal(t, "student@uni.test", identity.Email)
		})
	}
}

func TestAccountServiceRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
	mockAuth.EXPECT().RefreshSession(gomock.Any(), "refresh-1").Return(testSession(), nil)

	service := NewAccountService(mockAuth, zap.NewNop())
	session, err := service.Refresh(context.Background(), "refresh-1")

	assert.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
}

func TestAccountServiceLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
	mockAuth.EXPECT().SignOut(gomock.Any(), "access-1").Return(errors.New("token already revoked"))

	service := NewAccountService(mockAuth, zap.NewNop())
	err := service.Logout(context.Background(), "access-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token already revoked")
}

func TestAccountServiceRecover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockPlatformAuthProvider(ctrl)
	mockAuth.EXPECT().SendRecovery(gomock.Any(), "student@uni.test").Return(nil)

	service := NewAccountService(mockAuth, zap.NewNop())
	assert.NoError(t, service.Recover(context.Background(), "student@uni.test"))
}
