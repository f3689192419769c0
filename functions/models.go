package functions

import "github.com/google/uuid"

type NotifyReq struct {
	UserID uuid.UUID         `json:"user_id" validate:"required"`
	Title  string            `json:"title" validate:"required"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
}

type SendEmailReq struct {
	To       string                 `json:"to" validate:"required,email"`
	Template string                 `json:"template" validate:"required"`
	Data     map[string]interface{} `json:"data"`
}
