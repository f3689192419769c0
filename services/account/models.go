package accountservice

import (
	"github.com/google/uuid"

	"unilance/providers"
)

type RegisterReq struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=student entrepreneur"`
	DisplayName string `json:"display_name" validate:"required,max=120"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type RecoverReq struct {
	Email string `json:"email" validate:"required,email"`
}

type IdentityRes struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

type SessionRes struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	User         *IdentityRes `json:"user,omitempty"`
}

func newSessionRes(session *providers.Session, identity *providers.Identity) SessionRes {
	res := SessionRes{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		RefreshToken: session.RefreshToken,
	}
	if identity != nil {
		user := IdentityRes{ID: identity.ID, Email: identity.Email}
		if role, ok := identity.Metadata["role"].(string); ok {
			user.Role = role
		}
		res.User = &user
	}
	return res
}
