package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/security"
	"game-data-hub/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type authService struct {
	store      repository.Store
	jwtManager *security.JWTManager
	log        logrus.FieldLogger
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(store repository.Store, jwtManager *security.JWTManager, log logrus.FieldLogger) AuthService {
	return &authService{
		store:      store,
		jwtManager: jwtManager,
		log:        log,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.store.Users().Exists(ctx, username, email)
	if err != nil {
		return nil, translateError(err, 0, "failed to check user")
	}
	if exists {
		return nil, utils.NewConflictError("User", "Username or email already registered")
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeInternalError).WithCause(err).Build()
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, translateError(err, 0, "failed to create user")
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	invalid := utils.NewErrorBuilder(utils.ErrCodeInvalidCredentials).
		WithMessage("Incorrect username or password").
		Build()

	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, translateError(err, 0, "failed to load user")
	}
	if !security.CheckPassword(user.HashedPassword, req.Password) {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, utils.NewAuthorizationError("Inactive user")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeInternalError).WithCause(err).Build()
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtManager.TokenDuration().Seconds()),
		User:        user,
	}, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err, id, "failed to load user")
	}
	return user, nil
}
