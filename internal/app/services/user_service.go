package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/presence"
)

// UserService manages profiles and the members list
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, username string) (*dto.PublicProfileResponse, error)
	ListMembers(ctx context.Context) (*dto.MembersResponse, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

type userServiceImpl struct {
	userRepo    repositories.IUserRepository
	profileRepo repositories.IProfileRepository
	presence    presence.Tracker
	clock       Clock
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	profileRepo repositories.IProfileRepository,
	tracker presence.Tracker,
	clock Clock,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		presence:    tracker,
		clock:       clock,
		logger:      logger,
	}
}

// GetUser loads a user with its profile
func (s *userServiceImpl) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetProfile returns the caller's own view
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		profile, err := s.profileRepo.EnsureProfile(ctx, user.ID, models.RoleStudent)
		if err != nil {
			return nil, err
		}
		user.Profile = profile
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile saves the user row and its profile. The profile row is
// created first when it is missing. The role cannot be changed here.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to update user")
		return nil, err
	}

	role := models.RoleStudent
	if user.Profile != nil {
		role = user.Profile.RoleType
	}
	profile, err := s.profileRepo.EnsureProfile(ctx, user.ID, role)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Age != nil {
		age := *req.Age
		profile.Age = &age
	}
	if req.Profession != nil {
		profile.Profession = *req.Profession
	}
	if req.Education != nil {
		profile.Education = *req.Education
	}
	if req.Company != nil {
		profile.Company = *req.Company
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.PhotoURL != nil {
		if *req.PhotoURL == "" {
			profile.PhotoURL = nil
		} else {
			photo := *req.PhotoURL
			profile.PhotoURL = &photo
		}
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to update profile")
		return nil, err
	}
	user.Profile = profile

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// GetPublicProfile is visible without authentication
func (s *userServiceImpl) GetPublicProfile(ctx context.Context, username string) (*dto.PublicProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.ToPublicProfileResponse(user)
	return &resp, nil
}

// ListMembers splits the active users by role and flags who is online.
// A presence failure degrades to everyone offline.
func (s *userServiceImpl) ListMembers(ctx context.Context) (*dto.MembersResponse, error) {
	mentors, err := s.userRepo.ListByRole(ctx, models.RoleMentor, true)
	if err != nil {
		return nil, err
	}
	students, err := s.userRepo.ListByRole(ctx, models.RoleStudent, true)
	if err != nil {
		return nil, err
	}

	online := map[int64]bool{}
	if s.presence != nil {
		online, err = s.presence.Online(ctx, s.clock.Now())
		if err != nil {
			s.logger.Warn().Err(err).Str("tracker", s.presence.Name()).Msg("Presence lookup failed")
			online = map[int64]bool{}
		}
	}

	resp := &dto.MembersResponse{
		Mentors:  toMembers(mentors, online),
		Students: toMembers(students, online),
	}
	for _, list := range [][]dto.MemberResponse{resp.Mentors, resp.Students} {
		for _, m := range list {
			if m.Online {
				resp.OnlineCount++
			}
		}
	}
	return resp, nil
}

func toMembers(users []*models.User, online map[int64]bool) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.MemberResponse{UserSummary: *dto.ToUserSummary(u), Online: online[u.ID]})
	}
	return out
}
