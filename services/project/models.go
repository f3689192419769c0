package projectservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// validTransition encodes the one-way status ladder. Reopening a project is
// not a thing; the owner posts a new one.
func validTransition(from, to string) bool {
	switch {
	case from == StatusOpen && to == StatusInProgress:
		return true
	case from == StatusOpen && to == StatusClosed:
		return true
	case from == StatusInProgress && to == StatusClosed:
		return true
	}
	return false
}

type Project struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	OwnerID        uuid.UUID      `db:"owner_id" json:"owner_id"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	Category       string         `db:"category" json:"category"`
	BudgetCents    int64          `db:"budget_cents" json:"budget_cents"`
	Currency       string         `db:"currency" json:"currency"`
	SkillsRequired pq.StringArray `db:"skills_required" json:"skills_required"`
	Status         string         `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	ArchivedAt     *time.Time     `db:"archived_at" json:"-"`
}

type CreateProjectReq struct {
	Title          string   `json:"title" validate:"required,min=4,max=120"`
	Description    string   `json:"description" validate:"max=8000"`
	Category       string   `json:"category" validate:"max=80"`
	BudgetCents    int64    `json:"budget_cents" validate:"gte=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3,alpha"`
	SkillsRequired []string `json:"skills_required" validate:"max=20,dive,min=1,max=40"`
}

// UpdateProjectReq drives the dynamic UPDATE. BudgetCents is a pointer so
// setting a budget back to zero stays distinguishable from leaving it alone.
type UpdateProjectReq struct {
	Title          string   `json:"title" validate:"omitempty,min=4,max=120"`
	Description    string   `json:"description" validate:"omitempty,max=8000"`
	Category       string   `json:"category" validate:"omitempty,max=80"`
	BudgetCents    *int64   `json:"budget_cents" validate:"omitempty,gte=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3,alpha"`
	SkillsRequired []string `json:"skills_required" validate:"omitempty,max=20,dive,min=1,max=40"`
	Status         string   `json:"status" validate:"omitempty,oneof=open in_progress closed"`
}

type ProjectFilter struct {
	Status   string
	Category string
	Skill    string
	Query    string
	Limit    int
	Offset   int
}
