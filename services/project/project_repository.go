package projectservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNoFields = errors.New("no fields to update")

type ProjectRepository interface {
	Create(ctx context.Context, project Project) (Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]Project, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Project, int, error)
	UpdateFields(ctx context.Context, id uuid.UUID, req UpdateProjectReq) error
	Archive(ctx context.Context, id uuid.UUID) error
	HasApplicationFrom(ctx context.Context, projectID, studentID uuid.UUID) (bool, error)
}

type PostgresProjectRepository struct {
	DB *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &PostgresProjectRepository{DB: db}
}

const projectColumns = `id, owner_id, title, description, category, budget_cents,
		currency, skills_required, status, created_at, updated_at, archived_at`

func (r *PostgresProjectRepository) Create(ctx context.Context, project Project) (Project, error) {
	var saved Project
	err := r.DB.GetContext(ctx, &saved, `
		INSERT INTO projects (owner_id, title, description, category, budget_cents, currency, skills_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns+`
	`, project.OwnerID, project.Title, project.Description, project.Category,
		project.BudgetCents, project.Currency, pq.Array(project.SkillsRequired))
	if err != nil {
		return Project{}, fmt.Errorf("failed to insert project: %w", err)
	}
	return saved, nil
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	var project Project
	err := r.DB.GetContext(ctx, &project, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, sql.ErrNoRows
		}
		return Project{}, fmt.Errorf("failed to fetch project: %w", err)
	}
	return project, nil
}

func (r *PostgresProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]Project, int, error) {
	filterArgs := []interface{}{
		filter.Status == "",
		filter.Status,
		filter.Category == "",
		filter.Category,
		filter.Skill == "",
		filter.Skill,
		filter.Query == "",
		filter.Query,
	}

	rows := make([]Project, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE archived_at IS NULL
		AND ($1 OR status = $2)
		AND ($3 OR category = $4)
		AND ($5 OR $6 = ANY(skills_required))
		AND ($7 OR title ILIKE '%' || $8 || '%' OR description ILIKE '%' || $8 || '%')
		ORDER BY created_at DESC
		LIMIT $9 OFFSET $10
	`, append(filterArgs, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM projects
		WHERE archived_at IS NULL
		AND ($1 OR status = $2)
		AND ($3 OR category = $4)
		AND ($5 OR $6 = ANY(skills_required))
		AND ($7 OR title ILIKE '%' || $8 || '%' OR description ILIKE '%' || $8 || '%')
	`, filterArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return rows, total, nil
}

func (r *PostgresProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Project, int, error) {
	rows := make([]Project, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE owner_id = $1 AND archived_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list own projects: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM projects
		WHERE owner_id = $1 AND archived_at IS NULL
	`, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count own projects: %w", err)
	}

	return rows, total, nil
}

func (r *PostgresProjectRepository) UpdateFields(ctx context.Context, id uuid.UUID, req UpdateProjectReq) error {
	query := `UPDATE projects SET `
	args := []interface{}{}
	argPos := 1

	if req.Title != "" {
		query += fmt.Sprintf("title = $%d, ", argPos)
		args = append(args, req.Title)
		argPos++
	}
	if req.Description != "" {
		query += fmt.Sprintf("description = $%d, ", argPos)
		args = append(args, req.Description)
		argPos++
	}
	if req.Category != "" {
		query += fmt.Sprintf("category = $%d, ", argPos)
		args = append(args, req.Category)
		argPos++
	}
	if req.BudgetCents != nil {
		query += fmt.Sprintf("budget_cents = $%d, ", argPos)
		args = append(args, *req.BudgetCents)
		argPos++
	}
	if req.Currency != "" {
		query += fmt.Sprintf("currency = $%d, ", argPos)
		args = append(args, strings.ToUpper(req.Currency))
		argPos++
	}
	if req.SkillsRequired != nil {
		query += fmt.Sprintf("skills_required = $%d, ", argPos)
		args = append(args, pq.Array(req.SkillsRequired))
		argPos++
	}
	if req.Status != "" {
		query += fmt.Sprintf("status = $%d, ", argPos)
		args = append(args, req.Status)
		argPos++
	}
	if len(args) == 0 {
		return ErrNoFields
	}

	query = strings.TrimSuffix(query, ", ")
	query += fmt.Sprintf(", updated_at = now() WHERE id = $%d AND archived_at IS NULL", argPos)
	args = append(args, id)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Archive soft-deletes the project and declines its pending applications in
// the same transaction, so no application is left dangling on a dead post.
func (r *PostgresProjectRepository) Archive(ctx context.Context, id uuid.UUID) (err error) {
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
		UPDATE projects SET archived_at = now(), updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE applications SET status = 'declined', updated_at = now()
		WHERE project_id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to decline pending applications: %w", err)
	}

	return nil
}

func (r *PostgresProjectRepository) HasApplicationFrom(ctx context.Context, projectID, studentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM applications WHERE project_id = $1 AND student_id = $2
		)
	`, projectID, studentID)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}
