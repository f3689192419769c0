package profileservice

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

// ErrNoFields is returned when a partial update carries nothing to change.
var ErrNoFields = errors.New("no fields to update")

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	Upsert(ctx context.Context, profile Profile) (Profile, error)
	UpdateFields(ctx context.Context, id uuid.UUID, req UpdateProfileReq) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
	ListStudents(ctx context.Context, filter StudentFilter) ([]Profile, int, error)
}

type PostgresProfileRepository struct {
	DB *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

const profileColumns = `id, role, display_name, headline, bio, avatar_url, skills,
		university, company, website, onboarded, created_at, updated_at`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	var profile Profile
	err := r.DB.GetContext(ctx, &profile, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, sql.ErrNoRows
		}
		return Profile{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return profile, nil
}

// Upsert creates the row on first onboarding and refreshes the editable
// columns on replays. The role column is written once and never changed by
// the conflict branch.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	var saved Profile
	err := r.DB.GetContext(ctx, &saved, `
		INSERT INTO profiles (id, role, display_name, headline, bio, skills, university, company, website, onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			headline = EXCLUDED.headline,
			bio = EXCLUDED.bio,
			skills = EXCLUDED.skills,
			university = EXCLUDED.university,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			onboarded = TRUE,
			updated_at = now()
		RETURNING `+profileColumns+`
	`, profile.ID, profile.Role, profile.DisplayName, profile.Headline, profile.Bio,
		pq.Array(profile.Skills), profile.University, profile.Company, profile.Website)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return saved, nil
}

func (r *PostgresProfileRepository) UpdateFields(ctx context.Context, id uuid.UUID, req UpdateProfileReq) error {
	query := `UPDATE profiles SET `
	args := []interface{}{}
	argPos := 1

	if req.DisplayName != "" {
		query += fmt.Sprintf("display_name = $%d, ", argPos)
		args = append(args, req.DisplayName)
		argPos++
	}
	if req.Headline != "" {
		query += fmt.Sprintf("headline = $%d, ", argPos)
		args = append(args, req.Headline)
		argPos++
	}
	if req.Bio != "" {
		query += fmt.Sprintf("bio = $%d, ", argPos)
		args = append(args, req.Bio)
		argPos++
	}
	if req.Skills != nil {
		query += fmt.Sprintf("skills = $%d, ", argPos)
		args = append(args, pq.Array(req.Skills))
		argPos++
	}
	if req.University != "" {
		query += fmt.Sprintf("university = $%d, ", argPos)
		args = append(args, req.University)
		argPos++
	}
	if req.Company != "" {
		query += fmt.Sprintf("company = $%d, ", argPos)
		args = append(args, req.Company)
		argPos++
	}
	if req.Website != "" {
		query += fmt.Sprintf("website = $%d, ", argPos)
		args = append(args, req.Website)
		argPos++
	}
	if len(args) == 0 {
		return ErrNoFields
	}

	query = strings.TrimSuffix(query, ", ")
	query += fmt.Sprintf(", updated_at = now() WHERE id = $%d", argPos)
	args = append(args, id)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresProfileRepository) SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE profiles SET avatar_url = $1, updated_at = now() WHERE id = $2
	`, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar url: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresProfileRepository) ListStudents(ctx context.Context, filter StudentFilter) ([]Profile, int, error) {
	filterArgs := []interface{}{
		filter.Skill == "",
		filter.Skill,
		filter.University == "",
		filter.University,
	}

	rows := make([]Profile, 0)
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE role = 'student' AND onboarded
		AND ($1 OR $2 = ANY(skills))
		AND ($3 OR university ILIKE '%' || $4 || '%')
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`, append(filterArgs, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	var total int
	err = r.DB.GetContext(ctx, &total, `
		SELECT count(*) FROM profiles
		WHERE role = 'student' AND onboarded
		AND ($1 OR $2 = ANY(skills))
		AND ($3 OR university ILIKE '%' || $4 || '%')
	`, filterArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	return rows, total, nil
}
