package profileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"unilance/models"
	"unilance/providers"
	"unilance/utils"
)

var (
	ErrRoleMismatch          = errors.New("profile role does not match the account role")
	ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")
	ErrAvatarTooLarge        = errors.New("avatar exceeds the size limit")
)

type ProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (Profile, error)
	CompleteOnboarding(ctx context.Context, principal models.Principal, req OnboardingReq) (Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileReq) (Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, size int64, file io.Reader) (string, error)
	RemoveAvatar(ctx context.Context, userID uuid.UUID) error
	PublicProfile(ctx context.Context, id uuid.UUID) (PublicProfileRes, error)
	Students(ctx context.Context, filter StudentFilter) ([]PublicProfileRes, int, error)
}

type profileService struct {
	repo      ProfileRepository
	storage   providers.StorageProvider
	bucket    string
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

func NewProfileService(repo ProfileRepository, storage providers.StorageProvider, bucket string, logger *zap.Logger) ProfileService {
	return &profileService{
		repo:      repo,
		storage:   storage,
		bucket:    bucket,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

func (s *profileService) Me(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *profileService) CompleteOnboarding(ctx context.Context, principal models.Principal, req OnboardingReq) (Profile, error) {
	if req.Role != string(principal.Role) {
		return Profile{}, ErrRoleMismatch
	}

	profile := Profile{
		ID:          principal.ID,
		Role:        principal.Role,
		DisplayName: req.DisplayName,
		Headline:    req.Headline,
		Bio:         s.sanitizer.Sanitize(req.Bio),
		Skills:      req.Skills,
		University:  req.University,
		Company:     req.Company,
		Website:     req.Website,
	}
	saved, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	s.logger.Info("profile onboarded",
		zap.String("user_id", principal.ID.String()),
		zap.String("role", string(principal.Role)))
	return saved, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileReq) (Profile, error) {
	if req.Bio != "" {
		req.Bio = s.sanitizer.Sanitize(req.Bio)
	}
	if err := s.repo.UpdateFields(ctx, userID, req); err != nil {
		return Profile{}, err
	}
	return s.repo.GetByID(ctx, userID)
}

// UploadAvatar stores the image under <userID>/avatar<ext> so re-uploads
// overwrite the previous object instead of piling up.
func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, size int64, file io.Reader) (string, error) {
	if size > utils.MaxAvatarBytes {
		return "", ErrAvatarTooLarge
	}
	if !utils.IsAllowedAvatarType(contentType) {
		return "", ErrUnsupportedAvatarType
	}

	objectPath := userID.String() + "/avatar" + utils.AvatarExtension(contentType)
	if err := s.storage.Upload(ctx, s.bucket, objectPath, file, contentType); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL := s.storage.PublicURL(s.bucket, objectPath)
	if err := s.repo.SetAvatarURL(ctx, userID, avatarURL); err != nil {
		return "", err
	}
	return avatarURL, nil
}

func (s *profileService) RemoveAvatar(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile.AvatarURL == "" {
		return nil
	}

	prefix := s.storage.PublicURL(s.bucket, "")
	objectPath := strings.TrimPrefix(profile.AvatarURL, prefix)
	if objectPath != profile.AvatarURL {
		if err := s.storage.Remove(ctx, s.bucket, objectPath); err != nil {
			s.logger.Warn("failed to remove avatar object",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	return s.repo.SetAvatarURL(ctx, userID, "")
}

func (s *profileService) PublicProfile(ctx context.Context, id uuid.UUID) (PublicProfileRes, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublicProfileRes{}, err
	}
	return newPublicProfileRes(profile), nil
}

func (s *profileService) Students(ctx context.Context, filter StudentFilter) ([]PublicProfileRes, int, error) {
	rows, total, err := s.repo.ListStudents(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PublicProfileRes, 0, len(rows))
	for _, row := range rows {
		res = append(res, newPublicProfileRes(row))
	}
	return res, total, nil
}
