package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"dapur-keluarga/internal/config"
	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStorageUnavailable = errors.New("avatar storage is not available")
)

type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, fileSize int64, mimeType string, reader io.Reader) (*domain.User, error)
}

type service struct {
	userRepo    repository.UserRepository
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(userRepo repository.UserRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		userRepo:    userRepo,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) UploadAvatar(ctx context.Context, id uuid.UUID, fileSize int64, mimeType string, reader io.Reader) (*domain.User, error) {
	if s.minioClient == nil {
		return nil, ErrStorageUnavailable
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	storagePath := fmt.Sprintf("avatars/%s", id.String())

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL := s.getPublicURL(storagePath)
	user.AvatarURL = &avatarURL

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) getPublicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
