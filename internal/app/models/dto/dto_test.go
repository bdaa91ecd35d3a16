package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/mentorhub/internal/app/models"
)

func TestHandleValidationError(t *testing.T) {
	type form struct {
		Title string `validate:"required"`
		Link  string `validate:"omitempty,url"`
	}
	err := validator.New().Struct(form{Link: "not a url"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)

	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "title is required", fields[0].Message)
	assert.Equal(t, "link must be a valid URL", fields[1].Message)
}

func TestHandleValidationErrorNonValidator(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorCodeInvalidRequest, detail.Code)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestEnvelopes(t *testing.T) {
	ok := NewRedirectResponse(map[string]int{"id": 1}, "/api/v1/dashboard")
	assert.True(t, ok.Success)
	assert.Equal(t, "/api/v1/dashboard", ok.Redirect)

	failed := NewErrorRedirectResponse(NewErrorDetail(ErrorCodeUnauthorized, "Authentication required"), "/login?next=%2F")
	assert.False(t, failed.Success)
	assert.Equal(t, ErrorSeverityError, failed.Error.Severity)
	assert.Equal(t, "/login?next=%2F", failed.Redirect)
}

func TestTaskBucketsAdd(t *testing.T) {
	today := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	b := NewTaskBuckets()
	for _, d := range []int{9, 10, 11} {
		task := &models.Task{ID: int64(d), DueDate: time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)}
		b.Add(ToTaskResponse(task, 1, today))
	}

	require.Len(t, b.Overdue, 1)
	require.Len(t, b.Today, 1)
	require.Len(t, b.Future, 1)
	assert.Equal(t, "2024-05-09", b.Overdue[0].DueDate)
	assert.Equal(t, int64(11), b.Future[0].ID)
}

func TestPublicProfileHidesPhone(t *testing.T) {
	u := &models.User{
		ID:       1,
		Username: "rafa",
		Profile:  &models.Profile{RoleType: models.RoleMentor, Phone: "+55 11 99999-0000"},
	}
	assert.Equal(t, "+55 11 99999-0000", ToUserResponse(u).Profile.Phone)
	assert.Empty(t, ToPublicProfileResponse(u).Profile.Phone)
	assert.Equal(t, "MENTOR", ToPublicProfileResponse(u).Profile.RoleType)
}

func TestToCommentResponseNestsReplies(t *testing.T) {
	parent := int64(1)
	c := &models.Comment{
		ID:       1,
		AuthorID: 5,
		Replies:  []*models.Comment{{ID: 2, ParentID: &parent, AuthorID: 6}},
	}

	resp := ToCommentResponse(c, 6)
	assert.False(t, resp.IsAuthor)
	require.Len(t, resp.Replies, 1)
	assert.True(t, resp.Replies[0].IsAuthor)
}
