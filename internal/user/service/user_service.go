package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rathinadev/gocommerce/internal/user/domain"
	"github.com/rathinadev/gocommerce/internal/user/repository"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("incorrect email or password")

type UserService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, tokens *token.Manager, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error hashing password", zap.Error(err))
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPass),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			mylogger.Warn(ctx, s.logger, "Email already registered", zap.String("email", email))
			return nil, err
		}

		mylogger.Error(ctx, s.logger, "Error creating user", zap.Error(err))
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		mylogger.Warn(ctx, s.logger, "Password mismatch", zap.Int64("user_id", user.ID))
		return "", ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(user.ID)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error signing token", zap.Error(err))
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return accessToken, nil
}
