package applicationservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrDuplicate maps the unique (project_id, student_id) violation.
var ErrDuplicate = errors.New("application already exists")

const uniqueViolation = "23505"

type ApplicationRepository interface {
	Insert(ctx context.Context, app Application) (Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]ProjectApplicationRes, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]MyApplicationRes, int, error)
	Accept(ctx context.Context, id, projectID uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, from, to string) error
}

type PostgresApplicationRepository struct {
	DB *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &PostgresApplicationRepository{DB: db}
}

const applicationColumns = `id, project_id, student_id, cover_letter, status, created_at, updated_at`

func (r *PostgresApplicationRepository) Insert(ctx context.Context, app Application) (Application, error) {
	var saved Application
	err := r.DB.GetContext(ctx, &saved, `
		INSERT INTO applications (project_id, student_id, cover_letter)
		VALUES ($1, $2, $3)
		RETURNING `+applicationColumns+`
	`, app.ProjectID, app.StudentID, app.CoverLetter)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return Application{}, ErrDuplicate
		}
		return Application{}, fmt.Errorf("failed to insert application: %w", err)
	}
	return saved, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (Application, error) {
	var app Application
	err := r.DB.GetContext(ctx, &app, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, sql.ErrNoRows
		}
		return Application{}, fmt.Errorf("failed to fetch application: %w", err)
	}
	return app, nil
}

func (r *PostgresApplicationRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]ProjectApplicationRes, int, error) {
	rows := make([]ProjectApplicationRes, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT a.id, a.project_id, a.student_id, a.cover_letter, a.status, a.created_at, a.updated_at,
			p.display_name AS student_name,
			p.avatar_url AS student_avatar,
			p.skills AS student_skills
		FROM applications a
		JOIN profiles p ON p.id = a.student_id
		WHERE a.project_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list project applications: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM applications WHERE project_id = $1
	`, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count project applications: %w", err)
	}

	return rows, total, nil
}

func (r *PostgresApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]MyApplicationRes, int, error) {
	rows := make([]MyApplicationRes, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT a.id, a.project_id, a.student_id, a.cover_letter, a.status, a.created_at, a.updated_at,
			pr.title AS project_title,
			pr.status AS project_status
		FROM applications a
		JOIN projects pr ON pr.id = a.project_id
		WHERE a.student_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, studentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list own applications: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM applications WHERE student_id = $1
	`, studentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count own applications: %w", err)
	}

	return rows, total, nil
}

// Accept flips the application to accepted and, when the project is still
// open, moves it to in_progress. Both writes share one transaction.
func (r *PostgresApplicationRepository) Accept(ctx context.Context, id, projectID uuid.UUID) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE applications SET status = 'accepted', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to accept application: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotPending
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET status = 'in_progress', updated_at = now()
		WHERE id = $1 AND status = 'open' AND archived_at IS NULL
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to move project in progress: %w", err)
	}

	return nil
}

func (r *PostgresApplicationRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE applications SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
