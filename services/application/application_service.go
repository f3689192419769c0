package applicationservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	projectservice "unilance/services/project"
)

var (
	ErrProjectNotOpen = errors.New("project is not accepting applications")
	ErrOwnProject     = errors.New("cannot apply to your own project")
	ErrNotPending     = errors.New("application is not pending")
	ErrNotOwner       = errors.New("project belongs to another user")
)

type ApplicationService interface {
	Apply(ctx context.Context, projectID, studentID uuid.UUID, req ApplyReq) (Application, error)
	ListForProject(ctx context.Context, projectID, callerID uuid.UUID, limit, offset int) ([]ProjectApplicationRes, int, error)
	Mine(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]MyApplicationRes, int, error)
	Accept(ctx context.Context, id, callerID uuid.UUID) (Application, error)
	Decline(ctx context.Context, id, callerID uuid.UUID) (Application, error)
	Withdraw(ctx context.Context, id, callerID uuid.UUID) (Application, error)
}

type applicationService struct {
	repo      ApplicationRepository
	projects  projectservice.ProjectRepository
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewApplicationService(repo ApplicationRepository, projects projectservice.ProjectRepository, logger *zap.Logger) ApplicationService {
	return &applicationService{
		repo:      repo,
		projects:  projects,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

func (s *applicationService) Apply(ctx context.Context, projectID, studentID uuid.UUID, req ApplyReq) (Application, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return Application{}, err
	}
	if project.OwnerID == studentID {
		return Application{}, ErrOwnProject
	}
	if project.Status != projectservice.StatusOpen {
		return Application{}, ErrProjectNotOpen
	}

	saved, err := s.repo.Insert(ctx, Application{
		ProjectID:   projectID,
		StudentID:   studentID,
		CoverLetter: s.sanitizer.Sanitize(req.CoverLetter),
	})
	if err != nil {
		return Application{}, err
	}

	s.logger.Info("application submitted",
		zap.String("application_id", saved.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("student_id", studentID.String()))
	return saved, nil
}

func (s *applicationService) ListForProject(ctx context.Context, projectID, callerID uuid.UUID, limit, offset int) ([]ProjectApplicationRes, int, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	if project.OwnerID != callerID {
		return nil, 0, ErrNotOwner
	}
	return s.repo.ListByProject(ctx, projectID, limit, offset)
}

func (s *applicationService) Mine(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]MyApplicationRes, int, error) {
	return s.repo.ListByStudent(ctx, studentID, limit, offset)
}

func (s *applicationService) Accept(ctx context.Context, id, callerID uuid.UUID) (Application, error) {
	app, err := s.ownedApplication(ctx, id, callerID)
	if err != nil {
		return Application{}, err
	}
	if app.Status != StatusPending {
		return Application{}, ErrNotPending
	}

	if err := s.repo.Accept(ctx, id, app.ProjectID); err != nil {
		return Application{}, err
	}
	s.logger.Info("application accepted",
		zap.String("application_id", id.String()),
		zap.String("project_id", app.ProjectID.String()))
	return s.repo.GetByID(ctx, id)
}

func (s *applicationService) Decline(ctx context.Context, id, callerID uuid.UUID) (Application, error) {
	app, err := s.ownedApplication(ctx, id, callerID)
	if err != nil {
		return Application{}, err
	}
	if app.Status != StatusPending {
		return Application{}, ErrNotPending
	}

	if err := s.repo.SetStatus(ctx, id, StatusPending, StatusDeclined); err != nil {
		return Application{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *applicationService) Withdraw(ctx context.Context, id, callerID uuid.UUID) (Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	// Strangers learn nothing about other people's applications.
	if app.StudentID != callerID {
		return Application{}, sql.ErrNoRows
	}
	if app.Status != StatusPending {
		return Application{}, ErrNotPending
	}

	if err := s.repo.SetStatus(ctx, id, StatusPending, StatusWithdrawn); err != nil {
		return Application{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// ownedApplication resolves an application for a caller acting as the
// project owner. Anyone else gets sql.ErrNoRows, never a permission hint.
func (s *applicationService) ownedApplication(ctx context.Context, id, callerID uuid.UUID) (Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	project, err := s.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, sql.ErrNoRows
		}
		return Application{}, fmt.Errorf("failed to resolve project for application: %w", err)
	}
	if project.OwnerID != callerID {
		return Application{}, sql.ErrNoRows
	}
	return app, nil
}
