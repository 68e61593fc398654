package service

import (
	"context"
	"errors"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/btlam02/gis-app/internal/modules/user/dto"
	"github.com/btlam02/gis-app/internal/modules/user/repository"
	"github.com/btlam02/gis-app/internal/token"
	"github.com/btlam02/gis-app/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	repo   repository.UserRepository
	issuer *token.Issuer
}

func NewAuthService(repo repository.UserRepository, issuer *token.Issuer) AuthService {
	return &authService{repo: repo, issuer: issuer}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        input.Email,
		FullName:     input.FullName,
		Role:         entity.RoleUser,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Email:          user.Email,
		Role:           user.Role,
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		AccessExpires:  pair.AccessExpires,
		RefreshExpires: pair.RefreshExpires,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	return s.issuer.Refresh(ctx, refreshToken)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.issuer.Revoke(ctx, refreshToken)
}
