package projectservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCreateAppliesDefaultsAndSanitizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	mockRepo := NewMockProjectRepository(ctrl)
	service := NewProjectService(mockRepo, zap.NewNop())

	var created Project
	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p Project) (Project, error) {
			created = p
			p.ID = uuid.New()
			p.Status = StatusOpen
			return p, nil
		})

	saved, err := service.Create(context.Background(), ownerID, CreateProjectReq{
		Title:       "Landing page for a festival",
		Description: `<script>bad()</script>Three pages`,
	})

	assert.NoError(t, err)
	assert.Equal(t, "EUR", created.Currency)
	assert.NotContains(t, created.Description, "<script>")
	assert.Contains(t, created.Description, "Three pages")
	assert.Equal(t, StatusOpen, saved.Status)
}

func TestGetVisibility(t *testing.T) {
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	studentID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	tests := []struct {
		name       string
		viewerID   uuid.UUID
		setupMocks func(repo *MockProjectRepository)
		wantErr    error
	}{
		{
			name:     "open project is public",
			viewerID: uuid.Nil,
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusOpen}, nil)
			},
		},
		{
			name:     "non-open hidden from anonymous viewers",
			viewerID: uuid.Nil,
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusInProgress}, nil)
			},
			wantErr: sql.ErrNoRows,
		},
		{
			name:     "owner sees non-open project",
			viewerID: ownerID,
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusClosed}, nil)
			},
		},
		{
			name:     "applicant sees non-open project",
			viewerID: studentID,
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusInProgress}, nil)
				repo.EXPECT().HasApplicationFrom(gomock.Any(), projectID, studentID).Return(true, nil)
			},
		},
		{
			name:     "stranger gets not found",
			viewerID: studentID,
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusInProgress}, nil)
				repo.EXPECT().HasApplicationFrom(gomock.Any(), projectID, studentID).Return(false, nil)
			},
			wantErr: sql.ErrNoRows,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := NewMockProjectRepository(ctrl)
			tc.setupMocks(mockRepo)
			service := NewProjectService(mockRepo, zap.NewNop())

			project, err := service.Get(context.Background(), projectID, tc.viewerID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, projectID, project.ID)
		})
	}
}

func TestUpdateTransitions(t *testing.T) {
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	strangerID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	tests := []struct {
		name       string
		callerID   uuid.UUID
		req        UpdateProjectReq
		setupMocks func(repo *MockProjectRepository)
		wantErr    error
	}{
		{
			name:     "open to in_progress",
			callerID: ownerID,
			req:      UpdateProjectReq{Status: StatusInProgress},
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusOpen}, nil)
				repo.EXPECT().UpdateFields(gomock.Any(), projectID, UpdateProjectReq{Status: StatusInProgress}).Return(nil)
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusInProgress}, nil)
			},
		},
		{
			name:     "in_progress back to open is rejected",
			callerID: ownerID,
			req:      UpdateProjectReq{Status: StatusOpen},
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusInProgress}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "closed stays closed",
			callerID: ownerID,
			req:      UpdateProjectReq{Status: StatusInProgress},
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusClosed}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "non-owner cannot update",
			callerID: strangerID,
			req:      UpdateProjectReq{Title: "Hijacked"},
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).
					Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusOpen}, nil)
			},
			wantErr: ErrNotOwner,
		},
		{
			name:     "missing project",
			callerID: ownerID,
			req:      UpdateProjectReq{Title: "Fresh title"},
			setupMocks: func(repo *MockProjectRepository) {
				repo.EXPECT().GetByID(gomock.Any(), projectID).Return(Project{}, sql.ErrNoRows)
			},
			wantErr: sql.ErrNoRows,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := NewMockProjectRepository(ctrl)
			tc.setupMocks(mockRepo)
			service := NewProjectService(mockRepo, zap.NewNop())

			_, err := service.Update(context.Background(), projectID, tc.callerID, tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestArchiveOwnership(t *testing.T) {
	projectID := uuid.MustParse("0e4a8f40-31c4-4bb9-8f0e-3f2b6f0a77d1")
	ownerID := uuid.MustParse("9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	strangerID := uuid.MustParse("5f62831e-44c5-46c4-bede-0d5e3253cc16")

	t.Run("owner archives", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := NewMockProjectRepository(ctrl)
		mockRepo.EXPECT().GetByID(gomock.Any(), projectID).
			Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusOpen}, nil)
		mockRepo.EXPECT().Archive(gomock.Any(), projectID).Return(nil)
		service := NewProjectService(mockRepo, zap.NewNop())

		assert.NoError(t, service.Archive(context.Background(), projectID, ownerID))
	})

	t.Run("stranger is rejected before any write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := NewMockProjectRepository(ctrl)
		mockRepo.EXPECT().GetByID(gomock.Any(), projectID).
			Return(Project{ID: projectID, OwnerID: ownerID, Status: StatusOpen}, nil)
		service := NewProjectService(mockRepo, zap.NewNop())

		assert.ErrorIs(t, service.Archive(context.Background(), projectID, strangerID), ErrNotOwner)
	})
}
