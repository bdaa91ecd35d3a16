package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/auth"
)

// AuthService handles registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	clock      Clock
	hashCost   int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService. A zero hashCost uses auth.BcryptCost.
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, clock Clock, hashCost int, logger zerolog.Logger) AuthService {
	if hashCost == 0 {
		hashCost = auth.BcryptCost
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		clock:      clock,
		hashCost:   hashCost,
		logger:     logger,
	}
}

// Register creates the user with its profile and signs them in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	role := models.RoleStudent
	if req.RoleType != "" {
		parsed, ok := models.ParseRoleType(req.RoleType)
		if !ok {
			return nil, apperrors.NewValidationError("roleType", "roleType must be STUDENT or MENTOR")
		}
		role = parsed
	}

	hashed, err := auth.HashPasswordWithCost(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user, models.NewDefaultProfile(0, role)); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			s.logger.Warn().Err(err).Str("username", user.Username).Msg("Registration rejected")
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", user.Username).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")
	return s.issueToken(user)
}

// Login accepts a username or an email with the password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	identifier := strings.TrimSpace(req.Username)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("identifier", identifier).Msg("Invalid password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	now := s.clock.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	} else {
		user.LastLoginAt = &now
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) issueToken(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.ToUserResponse(user),
	}, nil
}
