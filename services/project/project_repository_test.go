package projectservice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var projectTestColumns = []string{
	"id", "owner_id", "title", "description", "category", "budget_cents",
	"currency", "skills_required", "status", "created_at", "updated_at", "archived_at",
}

func projectTestRow(id, ownerID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectTestColumns).AddRow(
		id, ownerID, "Landing page for a festival", "Three pages, CMS behind it",
		"web", int64(50000), "EUR", `{react,design}`, status, now, now, nil,
	)
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

	mock.ExpectQuery(`INSERT INTO projects \(owner_id, title, description, category, budget_cents, currency, skills_required\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\) RETURNING`).
		WillReturnRows(projectTestRow(projectID, ownerID, StatusOpen))

	saved, err := repo.Create(ctx, Project{
		OwnerID:        ownerID,
		Title:          "Landing page for a festival",
		Description:    "Three pages, CMS behind it",
		Category:       "web",
		BudgetCents:    50000,
		Currency:       "EUR",
		SkillsRequired: []string{"react", "design"},
	})

	assert.NoError(t, err)
	assert.Equal(t, projectID, saved.ID)
	assert.Equal(t, StatusOpen, saved.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectByID(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "project found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1 AND archived_at IS NULL$`).
					WithArgs(projectID).
					WillReturnRows(projectTestRow(projectID, ownerID, StatusOpen))
			},
		},
		{
			name: "archived or missing",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1 AND archived_at IS NULL$`).
					WithArgs(projectID).
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: sql.ErrNoRows,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}
			tc.mockSetup(mock)

			project, err := repo.GetByID(ctx, projectID)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, ownerID, project.OwnerID)
				assert.Equal(t, []string{"react", "design"}, []string(project.SkillsRequired))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

	mock.ExpectQuery(`SELECT .* FROM projects WHERE archived_at IS NULL .* ORDER BY created_at DESC LIMIT \$9 OFFSET \$10$`).
		WithArgs(false, StatusOpen, true, "", true, "", false, "festival", 20, 0).
		WillReturnRows(projectTestRow(projectID, ownerID, StatusOpen))
	mock.ExpectQuery(`SELECT count\(\*\) FROM projects WHERE archived_at IS NULL`).
		WithArgs(false, StatusOpen, true, "", true, "", false, "festival").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows, total, err := repo.List(ctx, ProjectFilter{
		Status: StatusOpen,
		Query:  "festival",
		Limit:  20,
	})

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectFields(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	budget := int64(75000)

	tests := []struct {
		name        string
		req         UpdateProjectReq
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "title and status",
			req:  UpdateProjectReq{Title: "Fresh title", Status: StatusInProgress},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE projects SET title = \$1, status = \$2, updated_at = now\(\) WHERE id = \$3 AND archived_at IS NULL$`).
					WithArgs("Fresh title", StatusInProgress, projectID).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "budget set to a new value",
			req:  UpdateProjectReq{BudgetCents: &budget},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE projects SET budget_cents = \$1, updated_at = now\(\) WHERE id = \$2 AND archived_at IS NULL$`).
					WithArgs(budget, projectID).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:        "nothing provided",
			req:         UpdateProjectReq{},
			mockSetup:   func(mock sqlmock.Sqlmock) {},
			expectedErr: ErrNoFields,
		},
		{
			name: "archived project",
			req:  UpdateProjectReq{Title: "Fresh title"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE projects SET title = \$1, updated_at = now\(\) WHERE id = \$2 AND archived_at IS NULL$`).
					WithArgs("Fresh title", projectID).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedErr: sql.ErrNoRows,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}
			tc.mockSetup(mock)

			err = repo.UpdateFields(ctx, projectID, tc.req)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestArchiveProject(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")

	t.Run("archives and declines pending applications", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE projects SET archived_at = now\(\), updated_at = now\(\) WHERE id = \$1 AND archived_at IS NULL$`).
			WithArgs(projectID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE applications SET status = 'declined', updated_at = now\(\) WHERE project_id = \$1 AND status = 'pending'$`).
			WithArgs(projectID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		assert.NoError(t, repo.Archive(ctx, projectID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat archive rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE projects SET archived_at = now\(\), updated_at = now\(\) WHERE id = \$1 AND archived_at IS NULL$`).
			WithArgs(projectID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Archive(ctx, projectID), sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("application update failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE projects SET archived_at = now\(\), updated_at = now\(\)`).
			WithArgs(projectID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE applications SET status = 'declined'`).
			WithArgs(projectID).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err = repo.Archive(ctx, projectID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decline pending applications")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHasApplicationFrom(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	studentID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &PostgresProjectRepository{DB: sqlx.NewDb(db, "postgres")}

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM applications WHERE project_id = \$1 AND student_id = \$2 \)$`).
		WithArgs(projectID, studentID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	applied, err := repo.HasApplicationFrom(ctx, projectID, studentID)
	assert.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
