package service

import (
	"context"
	"errors"

	"medvault-be/internal/dto"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/secret"

	"github.com/google/uuid"
)

var ErrUsernameTaken = errors.New("username already taken")

// ISettingsService manages the caller's profile and stored AI credentials.
// API keys are encrypted before they reach the database.
type ISettingsService interface {
	Get(ctx context.Context, userId uuid.UUID) (*dto.SettingsResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	UpdateApiKey(ctx context.Context, userId uuid.UUID, req *dto.UpdateApiKeyRequest) (*dto.SettingsResponse, error)
	DeleteApiKey(ctx context.Context, userId uuid.UUID) error
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	encryptor  *secret.Encryptor
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, encryptor *secret.Encryptor) ISettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		encryptor:  encryptor,
	}
}

func (s *settingsService) Get(ctx context.Context, userId uuid.UUID) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	res := &dto.SettingsResponse{}
	if user.OpenRouterApiKey != nil && *user.OpenRouterApiKey != "" {
		res.HasApiKey = true
		preview := "****"
		if plain, err := s.encryptor.Decrypt(*user.OpenRouterApiKey); err == nil {
			preview = keyPreview(plain)
		}
		res.ApiKeyPreview = &preview
	}
	return res, nil
}

func (s *settingsService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if req.Username != nil && (user.Username == nil || *req.Username != *user.Username) {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: *req.Username})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}
		user.Username = req.Username
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

func (s *settingsService) UpdateApiKey(ctx context.Context, userId uuid.UUID, req *dto.UpdateApiKeyRequest) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	encrypted, err := s.encryptor.Encrypt(req.ApiKey)
	if err != nil {
		return nil, err
	}
	if err := uow.UserRepository().UpdateApiKey(ctx, userId, &encrypted); err != nil {
		return nil, err
	}

	preview := keyPreview(req.ApiKey)
	return &dto.SettingsResponse{HasApiKey: true, ApiKeyPreview: &preview}, nil
}

func (s *settingsService) DeleteApiKey(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().UpdateApiKey(ctx, userId, nil)
}

// keyPreview shows only the last four characters of a stored key.
func keyPreview(key string) string {
	if len(key) < 4 {
		return "****"
	}
	return "..." + key[len(key)-4:]
}
