package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/pkg/mailer"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/events"
	pktNats "medvault-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserProfileResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string, ipAddress, userAgent string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	VerifyAccessToken(token string) (uuid.UUID, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         *TokenIssuer
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *TokenIssuer,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}
	existing, err = uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		Username:     &req.Username,
		PasswordHash: &hashStr,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if req.FullName != "" {
		user.FullName = &req.FullName
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return profileOf(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}
	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	pair, err := s.issuePair(ctx, uow, user.Id, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return pair, nil
}

// Refresh validates a refresh token, revokes it, and issues a fresh pair.
// Rotation means a leaked refresh token is only good for one exchange.
func (s *authService) Refresh(ctx context.Context, refreshToken string, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	userId, err := s.tokens.Verify(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshToken(ctx, hashToken(refreshToken))
	if err != nil || stored == nil {
		return nil, errors.New("invalid refresh token")
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token revoked or expired")
	}
	if stored.UserId != userId {
		return nil, errors.New("invalid refresh token")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || !user.IsActive {
		return nil, errors.New("user not found or disabled")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().RevokeRefreshToken(ctx, stored.TokenHash); err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, uow, user.Id, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) issuePair(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(userId)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(userId)
	if err != nil {
		return nil, err
	}

	record := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    userId,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.tokens.RefreshExpiry()),
		Revoked:   false,
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return profileOf(user), nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		// Don't leak whether the address exists.
		return nil
	}

	token := uuid.New().String()
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		Used:      false,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendResetToken(user.Email, token); emailErr != nil {
			fmt.Printf("Error sending reset password email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil || tokenEntity == nil {
		return errors.New("invalid or expired token")
	}
	if tokenEntity.Used {
		return errors.New("this password reset link has already been used")
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return errors.New("this password reset link has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenEntity.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkTokenUsed(ctx, tokenEntity.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *authService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.tokens.Verify(token, tokenTypeAccess)
}

func profileOf(user *entity.User) *dto.UserProfileResponse {
	profile := &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if user.Username != nil {
		profile.Username = *user.Username
	}
	if user.FullName != nil {
		profile.FullName = *user.FullName
	}
	return profile
}
