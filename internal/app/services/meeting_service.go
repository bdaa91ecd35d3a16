package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// MeetingService schedules meetings between a requester and invitees
type MeetingService interface {
	Create(ctx context.Context, userID int64, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	Get(ctx context.Context, userID, meetingID int64) (*dto.MeetingResponse, error)
	Update(ctx context.Context, userID, meetingID int64, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error)
	Delete(ctx context.Context, userID, meetingID int64) error
	ListInviteeCandidates(ctx context.Context, userID int64) ([]dto.UserSummary, error)
	ListToday(ctx context.Context, userID int64) ([]dto.MeetingResponse, error)
	ListUpcoming(ctx context.Context, userID int64) ([]dto.MeetingResponse, error)
}

type meetingServiceImpl struct {
	meetingRepo repositories.IMeetingRepository
	userRepo    repositories.IUserRepository
	authz       *auth.AuthorizationService
	clock       Clock
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(
	meetingRepo repositories.IMeetingRepository,
	userRepo repositories.IUserRepository,
	authz *auth.AuthorizationService,
	clock Clock,
	logger zerolog.Logger,
) MeetingService {
	return &meetingServiceImpl{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		authz:       authz,
		clock:       clock,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Create stores the meeting with the caller as requester
func (s *meetingServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	startsAt, err := helpers.ParseLocalDateTime(req.StartsAt, s.clock.Location)
	if err != nil {
		return nil, apperrors.NewValidationError("startsAt", err.Error())
	}

	meeting := &models.Meeting{
		Title:       strings.TrimSpace(req.Title),
		StartsAt:    startsAt,
		Link:        strings.TrimSpace(req.Link),
		RequesterID: userID,
	}
	if err := s.meetingRepo.Create(ctx, meeting, withoutSelf(req.InviteeIDs, userID)); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to create meeting")
		return nil, err
	}

	s.logger.Info().Int64("meetingID", meeting.ID).Int64("requesterID", userID).Msg("Meeting created")
	return s.reload(ctx, userID, meeting.ID)
}

// Get returns a meeting the caller requested or was invited to
func (s *meetingServiceImpl) Get(ctx context.Context, userID, meetingID int64) (*dto.MeetingResponse, error) {
	meeting, err := s.load(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewMeeting(userID, meeting); err != nil {
		return nil, err
	}
	resp := dto.ToMeetingResponse(meeting, userID)
	return &resp, nil
}

// Update edits a meeting. Only the requester may do this.
func (s *meetingServiceImpl) Update(ctx context.Context, userID, meetingID int64, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyMeeting(userID, meeting); err != nil {
		return nil, err
	}

	if req.Title != nil {
		meeting.Title = strings.TrimSpace(*req.Title)
	}
	if req.Link != nil {
		link := strings.TrimSpace(*req.Link)
		if link != "" {
			if err := s.validate.Var(link, "url"); err != nil {
				return nil, apperrors.NewValidationError("link", "link must be a valid URL")
			}
		}
		meeting.Link = link
	}
	startsAt, err := s.resolveStart(meeting.StartsAt, req)
	if err != nil {
		return nil, err
	}
	meeting.StartsAt = startsAt

	var invitees *[]int64
	if req.InviteeIDs != nil {
		ids := withoutSelf(*req.InviteeIDs, userID)
		invitees = &ids
	}
	if err := s.meetingRepo.Update(ctx, meeting, invitees); err != nil {
		s.logger.Warn().Err(err).Int64("meetingID", meetingID).Msg("Failed to update meeting")
		return nil, err
	}

	s.logger.Info().Int64("meetingID", meetingID).Msg("Meeting updated")
	return s.reload(ctx, userID, meetingID)
}

// resolveStart applies startsAt, or date and time with the missing half taken
// from the current start in the application time zone
func (s *meetingServiceImpl) resolveStart(current time.Time, req *dto.UpdateMeetingRequest) (time.Time, error) {
	if req.StartsAt != nil && strings.TrimSpace(*req.StartsAt) != "" {
		t, err := helpers.ParseLocalDateTime(*req.StartsAt, s.clock.Location)
		if err != nil {
			return time.Time{}, apperrors.NewValidationError("startsAt", err.Error())
		}
		return t, nil
	}
	if req.Date == nil && req.Time == nil {
		return current, nil
	}

	local := current.In(s.clock.Location)
	date, clock := local.Format(helpers.DateLayout), local.Format(helpers.TimeLayout)
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date = *req.Date
	}
	if req.Time != nil && strings.TrimSpace(*req.Time) != "" {
		clock = *req.Time
	}
	t, err := helpers.CombineDateTime(date, clock, s.clock.Location)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date", err.Error())
	}
	return t, nil
}

// Delete removes a meeting. Only the requester may do this.
func (s *meetingServiceImpl) Delete(ctx context.Context, userID, meetingID int64) error {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := s.authz.CanModifyMeeting(userID, meeting); err != nil {
		s.logger.Warn().Int64("userID", userID).Int64("meetingID", meetingID).Msg("Meeting delete denied")
		return err
	}
	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return err
	}
	s.logger.Info().Int64("meetingID", meetingID).Msg("Meeting deleted")
	return nil
}

// ListInviteeCandidates lists every active user except the caller
func (s *meetingServiceImpl) ListInviteeCandidates(ctx context.Context, userID int64) ([]dto.UserSummary, error) {
	users, err := s.userRepo.ListExcept(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserSummaries(users), nil
}

// ListToday returns visible meetings starting on the current day
func (s *meetingServiceImpl) ListToday(ctx context.Context, userID int64) ([]dto.MeetingResponse, error) {
	from, to := helpers.DayBounds(s.clock.Now(), s.clock.Location)
	return s.list(ctx, userID, &from, &to)
}

// ListUpcoming returns visible meetings that have not started yet
func (s *meetingServiceImpl) ListUpcoming(ctx context.Context, userID int64) ([]dto.MeetingResponse, error) {
	now := s.clock.Now()
	return s.list(ctx, userID, &now, nil)
}

func (s *meetingServiceImpl) list(ctx context.Context, userID int64, from, to *time.Time) ([]dto.MeetingResponse, error) {
	meetings, err := s.meetingRepo.ListVisible(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, meetings...); err != nil {
		return nil, err
	}
	return dto.ToMeetingResponses(meetings, userID), nil
}

func (s *meetingServiceImpl) load(ctx context.Context, meetingID int64) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *meetingServiceImpl) reload(ctx context.Context, userID, meetingID int64) (*dto.MeetingResponse, error) {
	meeting, err := s.load(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToMeetingResponse(meeting, userID)
	return &resp, nil
}

// hydrate attaches the requester of each meeting
func (s *meetingServiceImpl) hydrate(ctx context.Context, meetings ...*models.Meeting) error {
	ids := make([]int64, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.RequesterID)
	}
	users, err := loadUsers(ctx, s.userRepo, ids...)
	if err != nil {
		return err
	}
	for _, m := range meetings {
		m.Requester = users[m.RequesterID]
	}
	return nil
}

// withoutSelf drops the requester from an invitee list
func withoutSelf(ids []int64, self int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
