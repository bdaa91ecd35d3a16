package repositories

import (
	"context"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// Create stores the user and its profile atomically
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs returns the users found, keyed by ID. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	// ListByRole returns users whose profile has the role, ordered by username
	ListByRole(ctx context.Context, role models.RoleType, activeOnly bool) ([]*models.User, error)
	// ListExcept returns every active user but userID, ordered by username
	ListExcept(ctx context.Context, userID int64) ([]*models.User, error)
}

// IProfileRepository defines profile persistence
type IProfileRepository interface {
	// EnsureProfile creates the profile with the given role when the user has none
	// and returns the stored profile.
	EnsureProfile(ctx context.Context, userID int64, role models.RoleType) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// IMessageRepository defines direct message persistence
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// ListConversation returns messages exchanged between a and b, oldest first
	ListConversation(ctx context.Context, a, b int64) ([]*models.Message, error)
	// ListContactIDs returns the users that exchanged messages with userID, most recent first
	ListContactIDs(ctx context.Context, userID int64) ([]int64, error)
	// CountUnreadBySender counts unread messages addressed to recipientID per sender
	CountUnreadBySender(ctx context.Context, recipientID int64) (map[int64]int, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	// MarkConversationRead flags every unread message from senderID to recipientID
	MarkConversationRead(ctx context.Context, recipientID, senderID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
}

// IMeetingRepository defines meeting persistence. Loaded meetings carry their invitees.
type IMeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting, inviteeIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Meeting, error)
	// Update saves the meeting fields. A non-nil inviteeIDs replaces the invitee set.
	Update(ctx context.Context, meeting *models.Meeting, inviteeIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
	// ListVisible returns meetings requested by or inviting userID with
	// from <= starts_at < to (either bound optional), ordered by starts_at.
	ListVisible(ctx context.Context, userID int64, from, to *time.Time) ([]*models.Meeting, error)
}

// ITaskRepository defines task persistence
type ITaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	// ListVisible returns tasks owned or created by userID ordered by due date
	ListVisible(ctx context.Context, userID int64, pendingOnly bool) ([]*models.Task, error)
}

// PostFilter narrows the forum feed
type PostFilter struct {
	ViewerID int64
	Query    string
	Role     *models.RoleType
	Order    models.PostOrder
	Offset   uint64
	Limit    int // zero means no limit
}

// IPostRepository defines forum post persistence. Loaded posts carry like and
// comment counts and the viewer's like flag.
type IPostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	Delete(ctx context.Context, id int64) error
	// ToggleLike flips the user's like and reports whether the post is now liked
	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
}

// ICommentRepository defines forum comment persistence
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListTopLevel returns the post's comments without a parent, newest first
	ListTopLevel(ctx context.Context, postID int64) ([]*models.Comment, error)
	// ListReplies returns replies to the given parents, oldest first
	ListReplies(ctx context.Context, parentIDs []int64) ([]*models.Comment, error)
	// Delete removes the comment and its replies
	Delete(ctx context.Context, id int64) error
}
