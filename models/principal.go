package models

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from a platform-issued
// access token.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}
