package service

import (
	"context"
	"errors"
	"testing"

	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/repository/contract"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/secret"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo implements only the methods a test exercises; anything else
// panics through the embedded nil interface.
type stubUserRepo struct {
	contract.UserRepository
	findOne      func(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	updateApiKey func(ctx context.Context, userId uuid.UUID, encryptedKey *string) error
	update       func(ctx context.Context, user *entity.User) error
}

func (s *stubUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return s.findOne(ctx, specs...)
}

func (s *stubUserRepo) UpdateApiKey(ctx context.Context, userId uuid.UUID, encryptedKey *string) error {
	return s.updateApiKey(ctx, userId, encryptedKey)
}

func (s *stubUserRepo) Update(ctx context.Context, user *entity.User) error {
	return s.update(ctx, user)
}

type stubUow struct {
	unitofwork.UnitOfWork
	users contract.UserRepository
}

func (s *stubUow) UserRepository() contract.UserRepository { return s.users }

type stubUowFactory struct {
	uow unitofwork.UnitOfWork
}

func (s *stubUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return s.uow }

func factoryWith(users contract.UserRepository) unitofwork.RepositoryFactory {
	return &stubUowFactory{uow: &stubUow{users: users}}
}

func TestSettingsUpdateApiKeyEncryptsAtRest(t *testing.T) {
	enc, err := secret.NewEncryptor("test-passphrase")
	require.NoError(t, err)

	var stored *string
	users := &stubUserRepo{
		updateApiKey: func(ctx context.Context, userId uuid.UUID, encryptedKey *string) error {
			stored = encryptedKey
			return nil
		},
	}
	svc := NewSettingsService(factoryWith(users), enc)

	res, err := svc.UpdateApiKey(context.Background(), uuid.New(), &dto.UpdateApiKeyRequest{ApiKey: "sk-or-v1-abcdef123456"})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.NotContains(t, *stored, "sk-or-v1", "key must not hit the database in plaintext")
	plain, err := enc.Decrypt(*stored)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-v1-abcdef123456", plain)

	assert.True(t, res.HasApiKey)
	require.NotNil(t, res.ApiKeyPreview)
	assert.Equal(t, "...3456", *res.ApiKeyPreview)
}

func TestSettingsGetDecryptsPreview(t *testing.T) {
	enc, err := secret.NewEncryptor("test-passphrase")
	require.NoError(t, err)
	sealed, err := enc.Encrypt("sk-or-v1-abcdef123456")
	require.NoError(t, err)

	users := &stubUserRepo{
		findOne: func(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
			return &entity.User{Id: uuid.New(), OpenRouterApiKey: &sealed}, nil
		},
	}
	svc := NewSettingsService(factoryWith(users), enc)

	res, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.HasApiKey)
	require.NotNil(t, res.ApiKeyPreview)
	assert.Equal(t, "...3456", *res.ApiKeyPreview)
}

func TestSettingsGetUnreadableKeyMasked(t *testing.T) {
	enc, err := secret.NewEncryptor("test-passphrase")
	require.NoError(t, err)

	garbage := "bm90LWEtcmVhbC1jaXBoZXJ0ZXh0LXZhbHVl"
	users := &stubUserRepo{
		findOne: func(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
			return &entity.User{Id: uuid.New(), OpenRouterApiKey: &garbage}, nil
		},
	}
	svc := NewSettingsService(factoryWith(users), enc)

	res, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.HasApiKey)
	require.NotNil(t, res.ApiKeyPreview)
	assert.Equal(t, "****", *res.ApiKeyPreview)
}

func TestSettingsDeleteApiKeyClearsColumn(t *testing.T) {
	enc, err := secret.NewEncryptor("test-passphrase")
	require.NoError(t, err)

	called := false
	users := &stubUserRepo{
		updateApiKey: func(ctx context.Context, userId uuid.UUID, encryptedKey *string) error {
			called = true
			assert.Nil(t, encryptedKey)
			return nil
		},
	}
	svc := NewSettingsService(factoryWith(users), enc)

	require.NoError(t, svc.DeleteApiKey(context.Background(), uuid.New()))
	assert.True(t, called)
}

func TestSettingsUpdateProfileRejectsTakenUsername(t *testing.T) {
	enc, err := secret.NewEncryptor("test-passphrase")
	require.NoError(t, err)

	me := uuid.New()
	current := "olduser"
	users := &stubUserRepo{
		findOne: func(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
			switch specs[0].(type) {
			case specification.ByID:
				return &entity.User{Id: me, Username: &current}, nil
			case specification.ByUsername:
				return &entity.User{Id: uuid.New()}, nil
			}
			return nil, nil
		},
	}
	svc := NewSettingsService(factoryWith(users), enc)

	taken := "taken"
	_, err = svc.UpdateProfile(context.Background(), me, &dto.UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterPropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	users := &stubUserRepo{
		findOne: func(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
			return nil, lookupErr
		},
	}
	tokens := NewTokenIssuer("test-secret", 30, 7)
	svc := NewAuthService(factoryWith(users), tokens, nil, nil)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "a@b.test",
		Username: "someone",
		Password: "password123",
	})
	assert.ErrorIs(t, err, lookupErr, "a failing uniqueness lookup must abort the registration")
}

func TestKeyPreviewShowsLastFour(t *testing.T) {
	assert.Equal(t, "...3456", keyPreview("sk-or-v1-abcdef123456"))
	assert.Equal(t, "...abcd", keyPreview("abcd"))
}

func TestKeyPreviewShortKeysMasked(t *testing.T) {
	assert.Equal(t, "****", keyPreview("abc"))
	assert.Equal(t, "****", keyPreview(""))
}
