package notificationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"unilance/providers"
)

type NotificationService interface {
	List(ctx context.Context, recipientID uuid.UUID, filter NotificationFilter) ([]Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, req RegisterTokenReq) error
	RemoveDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	Notify(ctx context.Context, recipientID uuid.UUID, kind, title, body string, data map[string]string) (Notification, error)
}

type notificationService struct {
	repo   NotificationRepository
	push   providers.PushProvider
	mail   providers.MailProvider
	auth   providers.PlatformAuthProvider
	appURL string
	logger *zap.Logger
}

func NewNotificationService(
	repo NotificationRepository,
	push providers.PushProvider,
	mail providers.MailProvider,
	auth providers.PlatformAuthProvider,
	appURL string,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:   repo,
		push:   push,
		mail:   mail,
		auth:   auth,
		appURL: appURL,
		logger: logger,
	}
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, filter NotificationFilter) ([]Notification, int, error) {
	return s.repo.ListByRecipient(ctx, recipientID, filter)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, req RegisterTokenReq) error {
	return s.repo.UpsertDeviceToken(ctx, DeviceToken{
		Token:    req.Token,
		UserID:   userID,
		Platform: req.Platform,
	})
}

func (s *notificationService) RemoveDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.DeleteDeviceToken(ctx, token, userID)
}

// Notify persists the in-app row, then fans out to push and, for accepted
// applications, email. The row is the source of truth; delivery failures
// are logged and never bubble up.
func (s *notificationService) Notify(ctx context.Context, recipientID uuid.UUID, kind, title, body string, data map[string]string) (Notification, error) {
	payload, err := jsoniter.Marshal(data)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to encode notification payload: %w", err)
	}

	saved, err := s.repo.Insert(ctx, Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Payload:     types.JSONText(payload),
	})
	if err != nil {
		return Notification{}, err
	}

	s.fanOutPush(ctx, recipientID, title, body, data)
	if kind == KindApplicationAccepted {
		s.fanOutMail(ctx, recipientID, data)
	}

	return saved, nil
}

func (s *notificationService) fanOutPush(ctx context.Context, recipientID uuid.UUID, title, body string, data map[string]string) {
	tokens, err := s.repo.TokensForUser(ctx, recipientID)
	if err != nil {
		s.logger.Warn("push fan-out skipped",
			zap.String("recipient_id", recipientID.String()), zap.Error(err))
		return
	}
	if len(tokens) == 0 {
		return
	}

	result, err := s.push.Send(ctx, tokens, title, body, data)
	if err != nil {
		s.logger.Warn("push delivery failed",
			zap.String("recipient_id", recipientID.String()), zap.Error(err))
		return
	}
	if len(result.InvalidTokens) > 0 {
		if err := s.repo.DeleteTokens(ctx, result.InvalidTokens); err != nil {
			s.logger.Warn("failed to prune dead device tokens", zap.Error(err))
		}
	}
	s.logger.Debug("push delivered",
		zap.String("recipient_id", recipientID.String()),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed))
}

func (s *notificationService) fanOutMail(ctx context.Context, recipientID uuid.UUID, data map[string]string) {
	email, err := s.auth.AdminUserEmail(ctx, recipientID)
	if err != nil {
		s.logger.Warn("mail fan-out skipped",
			zap.String("recipient_id", recipientID.String()), zap.Error(err))
		return
	}

	subject, html, err := s.mail.Render("application-accepted", map[string]interface{}{
		"StudentName":  data["student_name"],
		"ProjectTitle": data["project_title"],
		"AppURL":       s.appURL,
	})
	if err != nil {
		s.logger.Warn("mail render failed", zap.Error(err))
		return
	}
	if _, err := s.mail.Send(ctx, email, subject, html); err != nil {
		s.logger.Warn("mail delivery failed",
			zap.String("recipient_id", recipientID.String()), zap.Error(err))
	}
}
