package notificationservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Notification kinds. Clients route on these, and the accepted kind also
// selects the transactional mail template.
const (
	KindApplicationReceived = "application.received"
	KindApplicationAccepted = "application.accepted"
	KindApplicationDeclined = "application.declined"
)

type Notification struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	RecipientID uuid.UUID      `db:"recipient_id" json:"recipient_id"`
	Kind        string         `db:"kind" json:"kind"`
	Payload     types.JSONText `db:"payload" json:"payload"`
	ReadAt      *time.Time     `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

type DeviceToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Platform  string    `db:"platform" json:"platform"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type RegisterTokenReq struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=web ios android"`
}

type NotificationFilter struct {
	Unread bool
	Limit  int
	Offset int
}
