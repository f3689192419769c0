package applicationservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusWithdrawn = "withdrawn"
)

// Application rows only ever move from pending to exactly one terminal
// status: accepted, declined or withdrawn.
type Application struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	StudentID   uuid.UUID `db:"student_id" json:"student_id"`
	CoverLetter string    `db:"cover_letter" json:"cover_letter"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ApplyReq struct {
	CoverLetter string `json:"cover_letter" validate:"max=4000"`
}

// ProjectApplicationRes is what a project owner sees: the application plus
// the applicant's public display data.
type ProjectApplicationRes struct {
	Application
	StudentName   string         `db:"student_name" json:"student_name"`
	StudentAvatar string         `db:"student_avatar" json:"student_avatar"`
	StudentSkills pq.StringArray `db:"student_skills" json:"student_skills"`
}

// MyApplicationRes is a student's own application with enough project
// context to render a list without extra lookups.
type MyApplicationRes struct {
	Application
	ProjectTitle  string `db:"project_title" json:"project_title"`
	ProjectStatus string `db:"project_status" json:"project_status"`
}
