package auth

import (
	"context"
	"errors"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// Authorization errors with user-facing messages
var (
	ErrNotRequester = apperrors.NewForbiddenError("only the requester can change this meeting")
	ErrNotInvited   = apperrors.NewForbiddenError("you are not part of this meeting")
	ErrNotCreator   = apperrors.NewForbiddenError("only the creator can change this task")
	ErrNotTaskParty = apperrors.NewForbiddenError("this task is not yours")
	ErrNotAuthor    = apperrors.NewForbiddenError("only the author can delete this")
	ErrNotRecipient = apperrors.NewForbiddenError("only the recipient can mark this message as read")
)

// AuthorizationService answers ownership and assignment questions
type AuthorizationService struct {
	userRepo repositories.IUserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// CanViewMeeting allows the requester and the invitees
func (s *AuthorizationService) CanViewMeeting(userID int64, m *models.Meeting) error {
	if !m.VisibleTo(userID) {
		return ErrNotInvited
	}
	return nil
}

// CanModifyMeeting allows the requester only
func (s *AuthorizationService) CanModifyMeeting(userID int64, m *models.Meeting) error {
	if m.RequesterID != userID {
		return ErrNotRequester
	}
	return nil
}

// CanViewTask allows the owner and the creator
func (s *AuthorizationService) CanViewTask(userID int64, t *models.Task) error {
	if !t.VisibleTo(userID) {
		return ErrNotTaskParty
	}
	return nil
}

// CanModifyTask allows the creator only
func (s *AuthorizationService) CanModifyTask(userID int64, t *models.Task) error {
	if t.CreatorID != userID {
		return ErrNotCreator
	}
	return nil
}

// CanDeletePost allows the author only
func (s *AuthorizationService) CanDeletePost(userID int64, p *models.Post) error {
	if p.AuthorID != userID {
		return ErrNotAuthor
	}
	return nil
}

// CanDeleteComment allows the author only
func (s *AuthorizationService) CanDeleteComment(userID int64, c *models.Comment) error {
	if c.AuthorID != userID {
		return ErrNotAuthor
	}
	return nil
}

// CanMarkRead allows the recipient only
func (s *AuthorizationService) CanMarkRead(userID int64, m *models.Message) error {
	if m.RecipientID != userID {
		return ErrNotRecipient
	}
	return nil
}

// CanAssignTasks reports whether the actor may set another user as task owner
func (s *AuthorizationService) CanAssignTasks(actor *models.User) bool {
	return actor.IsMentor()
}

// ResolveTaskOwner decides who owns a new task. Mentors may assign any student;
// everyone else always owns what they create.
func (s *AuthorizationService) ResolveTaskOwner(ctx context.Context, actor *models.User, assignTo *int64) (int64, error) {
	if !s.CanAssignTasks(actor) || assignTo == nil || *assignTo == actor.ID {
		return actor.ID, nil
	}

	target, err := s.userRepo.GetByID(ctx, *assignTo)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return 0, apperrors.NewResourceNotFoundError("assignee not found")
		}
		logger.Error().Err(err).Int64("assignTo", *assignTo).Msg("Error loading task assignee")
		return 0, err
	}
	if target.Role() != models.RoleStudent {
		return 0, apperrors.NewValidationError("assignTo", apperrors.ErrInvalidAssignee.Error())
	}
	return target.ID, nil
}
