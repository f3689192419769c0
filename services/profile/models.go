package profileservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"unilance/models"
)

// Profile mirrors the profiles table. The row id equals the platform user id,
// so no separate local user table exists.
type Profile struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Role        models.Role    `db:"role" json:"role"`
	DisplayName string         `db:"display_name" json:"display_name"`
	Headline    string         `db:"headline" json:"headline"`
	Bio         string         `db:"bio" json:"bio"`
	AvatarURL   string         `db:"avatar_url" json:"avatar_url"`
	Skills      pq.StringArray `db:"skills" json:"skills"`
	University  string         `db:"university" json:"university"`
	Company     string         `db:"company" json:"company"`
	Website     string         `db:"website" json:"website"`
	Onboarded   bool           `db:"onboarded" json:"onboarded"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type OnboardingReq struct {
	Role        string   `json:"role" validate:"required,oneof=student entrepreneur"`
	DisplayName string   `json:"display_name" validate:"required,max=120"`
	Headline    string   `json:"headline" validate:"max=160"`
	Bio         string   `json:"bio" validate:"max=4000"`
	Skills      []string `json:"skills" validate:"max=20,dive,min=1,max=40"`
	University  string   `json:"university" validate:"max=160"`
	Company     string   `json:"company" validate:"max=160"`
	Website     string   `json:"website" validate:"omitempty,url"`
}

type UpdateProfileReq struct {
	DisplayName string   `json:"display_name" validate:"omitempty,max=120"`
	Headline    string   `json:"headline" validate:"omitempty,max=160"`
	Bio         string   `json:"bio" validate:"omitempty,max=4000"`
	Skills      []string `json:"skills" validate:"omitempty,max=20,dive,min=1,max=40"`
	University  string   `json:"university" validate:"omitempty,max=160"`
	Company     string   `json:"company" validate:"omitempty,max=160"`
	Website     string   `json:"website" validate:"omitempty,url"`
}

// PublicProfileRes is the view other users see. Students expose their
// skills and university, entrepreneurs their company and website. Email
// never appears here.
type PublicProfileRes struct {
	ID          uuid.UUID   `json:"id"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	Headline    string      `json:"headline"`
	Bio         string      `json:"bio"`
	AvatarURL   string      `json:"avatar_url"`
	Skills      []string    `json:"skills,omitempty"`
	University  string      `json:"university,omitempty"`
	Company     string      `json:"company,omitempty"`
	Website     string      `json:"website,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newPublicProfileRes(p Profile) PublicProfileRes {
	res := PublicProfileRes{
		ID:          p.ID,
		Role:        p.Role,
		DisplayName: p.DisplayName,
		Headline:    p.Headline,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
	}
	switch p.Role {
	case models.StudentRole:
		res.Skills = p.Skills
		res.University = p.University
	case models.EntrepreneurRole:
		res.Company = p.Company
		res.Website = p.Website
	}
	return res
}

type StudentFilter struct {
	Skill      string
	University string
	Limit      int
	Offset     int
}
