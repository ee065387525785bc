package user

import (
	"context"
	"errors"

	"market-be/internal/logger"
	"market-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (string, User, error)
	Login(ctx context.Context, input LoginInput) (string, User, error)
	Me(ctx context.Context) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (string, User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, input.Email, hashed, input.Name)
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.String("email", input.Email), zap.Error(err))
		}
		return "", User{}, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", User{}, err
	}

	log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (string, User, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		// Same answer for unknown email and bad password.
		log.Warn("login failed", zap.String("email", input.Email))
		return "", User{}, ErrInvalidCredentials
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Warn("login failed", zap.String("email", input.Email))
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return "", User{}, err
	}

	return token, u, nil
}

func (s *service) Me(ctx context.Context) (User, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return User{}, ErrUserNotFound
	}

	return s.repo.GetByID(ctx, userID)
}
