package notificationservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter NotificationFilter) ([]Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	UpsertDeviceToken(ctx context.Context, t DeviceToken) error
	DeleteDeviceToken(ctx context.Context, token string, userID uuid.UUID) error
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type PostgresNotificationRepository struct {
	DB *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

const notificationColumns = `id, recipient_id, kind, payload, read_at, created_at`

func (r *PostgresNotificationRepository) Insert(ctx context.Context, n Notification) (Notification, error) {
	var saved Notification
	err := r.DB.GetContext(ctx, &saved, `
		INSERT INTO notifications (recipient_id, kind, payload)
		VALUES ($1, $2, $3)
		RETURNING `+notificationColumns+`
	`, n.RecipientID, n.Kind, n.Payload)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to insert notification: %w", err)
	}
	return saved, nil
}

func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter NotificationFilter) ([]Notification, int, error) {
	filterArgs := []interface{}{recipientID, !filter.Unread}

	rows := make([]Notification, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1 AND ($2 OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, append(filterArgs, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM notifications
		WHERE recipient_id = $1 AND ($2 OR read_at IS NULL)
	`, filterArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return rows, total, nil
}

// MarkRead is idempotent: re-marking keeps the original read_at. A row
// belonging to someone else is indistinguishable from a missing one.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET read_at = COALESCE(read_at, now())
		WHERE id = $1 AND recipient_id = $2
	`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET read_at = now()
		WHERE recipient_id = $1 AND read_at IS NULL
	`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count marked notifications: %w", err)
	}
	return rowsAffected, nil
}

// UpsertDeviceToken re-binds an existing token. Tokens follow the device,
// not the account, so a login on a shared device moves the token over.
func (r *PostgresNotificationRepository) UpsertDeviceToken(ctx context.Context, t DeviceToken) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO device_tokens (token, user_id, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			updated_at = now()
	`, t.Token, t.UserID, t.Platform)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

// DeleteDeviceToken ignores unknown tokens; delete is idempotent.
func (r *PostgresNotificationRepository) DeleteDeviceToken(ctx context.Context, token string, userID uuid.UUID) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM device_tokens WHERE token = $1 AND user_id = $2
	`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to delete device token: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	tokens := make([]string, 0)
	err := r.DB.SelectContext(ctx, &tokens, `
		SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	return tokens, nil
}

func (r *PostgresNotificationRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM device_tokens WHERE token = ANY($1)
	`, pq.Array(tokens))
	if err != nil {
		return fmt.Errorf("failed to prune device tokens: %w", err)
	}
	return nil
}
