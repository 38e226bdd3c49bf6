package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"medvault-be/internal/config"
	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string, ipAddress, userAgent string) (*dto.TokenPairResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *TokenIssuer
	googleConf *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, tokens *TokenIssuer, cfg config.AuthConfig) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		tokens:     tokens,
		googleConf: conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}
	if googleUser.Email == "" {
		return nil, errors.New("google account has no email")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByGoogleId{GoogleId: googleUser.ID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Not linked yet; match on email, or provision a new account.
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
		if err != nil {
			return nil, err
		}
		if user != nil {
			if err := uow.UserRepository().LinkGoogleAccount(ctx, user.Id, googleUser.ID); err != nil {
				return nil, err
			}
		} else {
			user = &entity.User{
				Id:        uuid.New(),
				Email:     googleUser.Email,
				GoogleId:  &googleUser.ID,
				IsActive:  true,
				CreatedAt: time.Now(),
			}
			if googleUser.Name != "" {
				user.FullName = &googleUser.Name
			}
			if err := uow.UserRepository().Create(ctx, user); err != nil {
				return nil, err
			}
			log.Printf("[OAuth Service] Provisioned new user for %s", googleUser.Email)
		}
	}

	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Id)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.Id)
	if err != nil {
		return nil, err
	}
	record := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.tokens.RefreshExpiry()),
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
