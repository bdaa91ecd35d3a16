package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/websocket"
)

func TestChatRoomMarksRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)

	for _, text := range []string{"hi", "are you there?"} {
		_, err := f.svc.Chat.Send(ctx, rafa, "lia", &dto.SendMessageRequest{Content: text})
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.Chat.SendMessageByUsername(ctx, lia, "rafa", "yes"))

	contacts, err := f.svc.Chat.ListContacts(ctx, lia)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "rafa", contacts[0].Username)
	assert.Equal(t, 2, contacts[0].Unread)

	room, err := f.svc.Chat.OpenRoom(ctx, lia, "rafa")
	require.NoError(t, err)
	assert.Equal(t, int64(2), room.MarkedAs)
	require.Len(t, room.Messages, 3)
	assert.Equal(t, "hi", room.Messages[0].Content)
	assert.Equal(t, "yes", room.Messages[2].Content)
	assert.True(t, room.Messages[2].Mine)
	for _, m := range room.Messages[:2] {
		assert.True(t, m.Read)
	}

	unread, err := f.svc.Chat.CountUnread(ctx, lia)
	require.NoError(t, err)
	assert.Zero(t, unread)

	var readEvents int
	for _, e := range f.notifier.forUser(rafa) {
		if e.eventType == websocket.EventMessageRead {
			readEvents++
		}
	}
	assert.Equal(t, 1, readEvents)
}

func TestSendPushesToRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lia := f.register(t, "lia", models.RoleStudent)
	beto := f.register(t, "beto", models.RoleStudent)

	msg, err := f.svc.Chat.Send(ctx, beto, "lia", &dto.SendMessageRequest{Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.True(t, msg.Mine)

	events := f.notifier.forUser(lia)
	require.Len(t, events, 1)
	assert.Equal(t, websocket.EventMessage, events[0].eventType)
	pushed, ok := events[0].data.(dto.MessageResponse)
	require.True(t, ok)
	assert.False(t, pushed.Mine)
}

func TestSendRejectsSelfAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lia := f.register(t, "lia", models.RoleStudent)
	f.register(t, "rafa", models.RoleMentor)

	_, err := f.svc.Chat.Send(ctx, lia, "lia", &dto.SendMessageRequest{Content: "me"})
	assert.ErrorIs(t, err, apperrors.ErrSelfMessage)

	err = f.svc.Chat.SendMessageByUsername(ctx, lia, "rafa", "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Chat.Send(ctx, lia, "ghost", &dto.SendMessageRequest{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)

	msg, err := f.svc.Chat.Send(ctx, rafa, "lia", &dto.SendMessageRequest{Content: "ping"})
	require.NoError(t, err)

	_, err = f.svc.Chat.MarkNotificationRead(ctx, rafa, msg.ID)
	assert.ErrorIs(t, err, auth.ErrNotRecipient)

	read, err := f.svc.Chat.MarkNotificationRead(ctx, lia, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = f.svc.Chat.MarkNotificationRead(ctx, lia, 999)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestForumFeedFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)

	first, err := f.svc.Forum.CreatePost(ctx, rafa, &dto.CreatePostRequest{Content: "Tips for interviews"})
	require.NoError(t, err)
	_, err = f.svc.Forum.CreatePost(ctx, lia, &dto.CreatePostRequest{Content: "My first week", ImageURL: "https://img.example.com/a.png"})
	require.NoError(t, err)

	feed, err := f.svc.Forum.Feed(ctx, lia, dto.ForumQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, "My first week", feed.Posts[0].Content)
	assert.Equal(t, int64(2), feed.Pagination.TotalItems)
	assert.Equal(t, "recent", feed.Order)

	feed, err = f.svc.Forum.Feed(ctx, lia, dto.ForumQuery{Author: "Mentores"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, first.ID, feed.Posts[0].ID)
	assert.Equal(t, "mentor", feed.Author)

	feed, err = f.svc.Forum.Feed(ctx, lia, dto.ForumQuery{Q: "LIA"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "lia", feed.Posts[0].Author.Username)

	_, err = f.svc.Forum.ToggleLike(ctx, lia, first.ID)
	require.NoError(t, err)
	feed, err = f.svc.Forum.Feed(ctx, lia, dto.ForumQuery{Order: "curtidas"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "likes", feed.Order)
	assert.Equal(t, first.ID, feed.Posts[0].ID)
	assert.True(t, feed.Posts[0].LikedByMe)
}

func TestToggleLikeIsInvolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	post, err := f.svc.Forum.CreatePost(ctx, rafa, &dto.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)

	on, err := f.svc.Forum.ToggleLike(ctx, rafa, post.ID)
	require.NoError(t, err)
	assert.True(t, on.Liked)
	assert.Equal(t, 1, on.LikeCount)

	off, err := f.svc.Forum.ToggleLike(ctx, rafa, post.ID)
	require.NoError(t, err)
	assert.False(t, off.Liked)
	assert.Zero(t, off.LikeCount)

	_, err = f.svc.Forum.ToggleLike(ctx, rafa, 999)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestCommentThreading(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)

	post, err := f.svc.Forum.CreatePost(ctx, rafa, &dto.CreatePostRequest{Content: "Ask me anything"})
	require.NoError(t, err)
	other, err := f.svc.Forum.CreatePost(ctx, rafa, &dto.CreatePostRequest{Content: "Other"})
	require.NoError(t, err)

	older, err := f.svc.Forum.AddComment(ctx, lia, post.ID, &dto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	newer, err := f.svc.Forum.AddComment(ctx, rafa, post.ID, &dto.CreateCommentRequest{Content: "second"})
	require.NoError(t, err)
	reply, err := f.svc.Forum.AddComment(ctx, rafa, post.ID, &dto.CreateCommentRequest{Content: "reply", ParentID: &older.ID})
	require.NoError(t, err)
	nested, err := f.svc.Forum.AddComment(ctx, lia, post.ID, &dto.CreateCommentRequest{Content: "reply to reply", ParentID: &reply.ID})
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, older.ID, *nested.ParentID)

	_, err = f.svc.Forum.AddComment(ctx, lia, other.ID, &dto.CreateCommentRequest{Content: "x", ParentID: &older.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParent)

	detail, err := f.svc.Forum.GetPost(ctx, lia, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, detail.Post.CommentCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, newer.ID, detail.Comments[0].ID)
	assert.Equal(t, older.ID, detail.Comments[1].ID)
	for _, c := range detail.Comments {
		assert.Nil(t, c.ParentID)
	}
	require.Len(t, detail.Comments[1].Replies, 2)
	assert.Equal(t, "reply", detail.Comments[1].Replies[0].Content)
	assert.Equal(t, "reply to reply", detail.Comments[1].Replies[1].Content)
	assert.Equal(t, "lia", detail.Comments[1].Author.Username)

	_, err = f.svc.Forum.DeleteComment(ctx, rafa, older.ID)
	assert.ErrorIs(t, err, auth.ErrNotAuthor)

	postID, err := f.svc.Forum.DeleteComment(ctx, lia, older.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, postID)

	detail, err = f.svc.Forum.GetPost(ctx, lia, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, 1, detail.Post.CommentCount)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)
	post, err := f.svc.Forum.CreatePost(ctx, rafa, &dto.CreatePostRequest{Content: "mine"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Forum.DeletePost(ctx, lia, post.ID), auth.ErrNotAuthor)
	require.NoError(t, f.svc.Forum.DeletePost(ctx, rafa, post.ID))
	_, err = f.svc.Forum.GetPost(ctx, rafa, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)

	age := 41
	resp, err := f.svc.User.UpdateProfile(ctx, rafa, &dto.UpdateProfileRequest{
		FirstName:  strPtr("Rafael"),
		Bio:        strPtr("Backend mentor"),
		Age:        &age,
		Company:    strPtr("Acme"),
		Phone:      strPtr("+55 11 99999-0000"),
		PhotoURL:   strPtr("https://img.example.com/r.png"),
		Profession: strPtr("Engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rafael", resp.FirstName)
	assert.Equal(t, "MENTOR", resp.Profile.RoleType)
	assert.Equal(t, "Backend mentor", resp.Profile.Bio)
	require.NotNil(t, resp.Profile.Age)
	assert.Equal(t, 41, *resp.Profile.Age)

	public, err := f.svc.User.GetPublicProfile(ctx, "rafa")
	require.NoError(t, err)
	assert.Equal(t, "Acme", public.Profile.Company)
	assert.Empty(t, public.Profile.Phone)

	_, err = f.svc.User.GetPublicProfile(ctx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateProfileDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "rafa", models.RoleMentor)
	lia := f.register(t, "lia", models.RoleStudent)

	_, err := f.svc.User.UpdateProfile(ctx, lia, &dto.UpdateProfileRequest{Username: strPtr("rafa")})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}

func TestListMembersFlagsOnline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rafa := f.register(t, "rafa", models.RoleMentor)
	f.register(t, "lia", models.RoleStudent)
	beto := f.register(t, "beto", models.RoleStudent)

	require.NoError(t, f.presence.Touch(ctx, rafa, f.now.Add(-time.Minute)))
	require.NoError(t, f.presence.Touch(ctx, beto, f.now.Add(-time.Hour)))

	members, err := f.svc.User.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members.Mentors, 1)
	require.Len(t, members.Students, 2)
	assert.True(t, members.Mentors[0].Online)
	for _, s := range members.Students {
		assert.False(t, s.Online, s.Username)
	}
	assert.Equal(t, 1, members.OnlineCount)
}
