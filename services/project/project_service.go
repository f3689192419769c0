package projectservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	ErrNotOwner          = errors.New("project belongs to another user")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateProjectReq) (Project, error)
	Get(ctx context.Context, id, viewerID uuid.UUID) (Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]Project, int, error)
	Mine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Project, int, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateProjectReq) (Project, error)
	Archive(ctx context.Context, id, ownerID uuid.UUID) error
}

type projectService struct {
	repo      ProjectRepository
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewProjectService(repo ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

func (s *projectService) Create(ctx context.Context, ownerID uuid.UUID, req CreateProjectReq) (Project, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	project := Project{
		OwnerID:        ownerID,
		Title:          req.Title,
		Description:    s.sanitizer.Sanitize(req.Description),
		Category:       req.Category,
		BudgetCents:    req.BudgetCents,
		Currency:       currency,
		SkillsRequired: req.SkillsRequired,
	}
	saved, err := s.repo.Create(ctx, project)
	if err != nil {
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project posted",
		zap.String("project_id", saved.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return saved, nil
}

// Get hides non-open projects from everyone except the owner and students
// who already applied, and answers not-found rather than forbidden so
// existence does not leak.
func (s *projectService) Get(ctx context.Context, id, viewerID uuid.UUID) (Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if project.Status == StatusOpen || project.OwnerID == viewerID {
		return project, nil
	}
	if viewerID != uuid.Nil {
		applied, err := s.repo.HasApplicationFrom(ctx, id, viewerID)
		if err != nil {
			return Project{}, err
		}
		if applied {
			return project, nil
		}
	}
	return Project{}, sql.ErrNoRows
}

func (s *projectService) List(ctx context.Context, filter ProjectFilter) ([]Project, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *projectService) Mine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Project, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *projectService) Update(ctx context.Context, id, ownerID uuid.UUID, req UpdateProjectReq) (Project, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if current.OwnerID != ownerID {
		return Project{}, ErrNotOwner
	}
	if req.Status != "" && req.Status != current.Status && !validTransition(current.Status, req.Status) {
		return Project{}, ErrInvalidTransition
	}
	if req.Description != "" {
		req.Description = s.sanitizer.Sanitize(req.Description)
	}

	if err := s.repo.UpdateFields(ctx, id, req); err != nil {
		return Project{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *projectService) Archive(ctx context.Context, id, ownerID uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project archived",
		zap.String("project_id", id.String()),
		zap.String("owner_id", ownerID.String()))
	return nil
}
