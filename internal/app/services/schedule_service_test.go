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
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestMeetingVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)
	outsider := f.register(t, "beto", models.RoleStudent)

	created, err := f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{
		Title:      "Career chat",
		StartsAt:   "2024-06-10T15:30",
		InviteeIDs: []int64{student, mentor},
	})
	require.NoError(t, err)
	assert.True(t, created.IsRequester)
	require.Len(t, created.Invitees, 1)
	assert.Equal(t, "lia", created.Invitees[0].Username)
	assert.Equal(t, "rafa", created.Requester.Username)
	assert.True(t, created.StartsAt.Equal(time.Date(2024, 6, 10, 15, 30, 0, 0, brt)))

	got, err := f.svc.Meeting.Get(ctx, student, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRequester)

	_, err = f.svc.Meeting.Get(ctx, outsider, created.ID)
	assert.ErrorIs(t, err, auth.ErrNotInvited)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Meeting.Get(ctx, mentor, 999)
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestMeetingModifyOnlyByRequester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)

	m, err := f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{
		Title: "Review", StartsAt: "2024-06-11T09:00", InviteeIDs: []int64{student},
	})
	require.NoError(t, err)

	_, err = f.svc.Meeting.Update(ctx, student, m.ID, &dto.UpdateMeetingRequest{Title: strPtr("Hijack")})
	assert.ErrorIs(t, err, auth.ErrNotRequester)

	err = f.svc.Meeting.Delete(ctx, student, m.ID)
	assert.ErrorIs(t, err, auth.ErrNotRequester)

	still, err := f.svc.Meeting.Get(ctx, mentor, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Review", still.Title)

	require.NoError(t, f.svc.Meeting.Delete(ctx, mentor, m.ID))
	_, err = f.svc.Meeting.Get(ctx, mentor, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestMeetingUpdateDateKeepsTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)

	m, err := f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{Title: "Sync", StartsAt: "2024-06-11T09:45"})
	require.NoError(t, err)

	ids := []int64{student}
	updated, err := f.svc.Meeting.Update(ctx, mentor, m.ID, &dto.UpdateMeetingRequest{
		Date:       strPtr("2024-06-14"),
		Link:       strPtr("https://meet.example.com/x"),
		InviteeIDs: &ids,
	})
	require.NoError(t, err)
	assert.True(t, updated.StartsAt.Equal(time.Date(2024, 6, 14, 9, 45, 0, 0, brt)))
	assert.Equal(t, "https://meet.example.com/x", updated.Link)
	require.Len(t, updated.Invitees, 1)

	_, err = f.svc.Meeting.Update(ctx, mentor, m.ID, &dto.UpdateMeetingRequest{Link: strPtr("not a url")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Meeting.Update(ctx, mentor, m.ID, &dto.UpdateMeetingRequest{Time: strPtr("25:99")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestMeetingListsTodayAndUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)

	for _, start := range []string{"2024-06-10T08:00", "2024-06-10T18:00", "2024-06-12T10:00", "2024-06-09T10:00"} {
		_, err := f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{Title: start, StartsAt: start, InviteeIDs: []int64{student}})
		require.NoError(t, err)
	}

	today, err := f.svc.Meeting.ListToday(ctx, student)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "2024-06-10T08:00", today[0].Title)
	assert.Equal(t, "2024-06-10T18:00", today[1].Title)

	upcoming, err := f.svc.Meeting.ListUpcoming(ctx, mentor)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "2024-06-10T18:00", upcoming[0].Title)
	assert.Equal(t, "2024-06-12T10:00", upcoming[1].Title)
}

func TestInviteeCandidatesExcludeSelf(t *testing.T) {
	f := newFixture(t)
	mentor := f.register(t, "rafa", models.RoleMentor)
	f.register(t, "lia", models.RoleStudent)

	users, err := f.svc.Meeting.ListInviteeCandidates(context.Background(), mentor)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "lia", users[0].Username)
}

func TestTaskAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	otherMentor := f.register(t, "vera", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)
	peer := f.register(t, "beto", models.RoleStudent)

	t.Run("mentor assigns a student", func(t *testing.T) {
		task, err := f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "Read", DueDate: "2024-06-12", AssignTo: &student})
		require.NoError(t, err)
		assert.Equal(t, student, task.Owner.ID)
		assert.Equal(t, mentor, task.Creator.ID)
		assert.True(t, task.IsCreator)
	})

	t.Run("mentor without target owns the task", func(t *testing.T) {
		task, err := f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "Prep", DueDate: "2024-06-12"})
		require.NoError(t, err)
		assert.Equal(t, mentor, task.Owner.ID)
	})

	t.Run("mentor cannot assign a mentor", func(t *testing.T) {
		_, err := f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "X", DueDate: "2024-06-12", AssignTo: &otherMentor})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("missing target", func(t *testing.T) {
		missing := int64(999)
		_, err := f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "X", DueDate: "2024-06-12", AssignTo: &missing})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("student assignment is ignored", func(t *testing.T) {
		task, err := f.svc.Task.Create(ctx, student, &dto.CreateTaskRequest{Title: "Mine", DueDate: "2024-06-12", AssignTo: &peer})
		require.NoError(t, err)
		assert.Equal(t, student, task.Owner.ID)
		assert.Equal(t, student, task.Creator.ID)
	})

	t.Run("bad due date", func(t *testing.T) {
		_, err := f.svc.Task.Create(ctx, student, &dto.CreateTaskRequest{Title: "Bad", DueDate: "12/06/2024"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestTaskModifyOnlyByCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)
	outsider := f.register(t, "beto", models.RoleStudent)

	task, err := f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "Read", DueDate: "2024-06-12", AssignTo: &student})
	require.NoError(t, err)

	view, err := f.svc.Task.Get(ctx, student, task.ID)
	require.NoError(t, err)
	assert.False(t, view.IsCreator)

	_, err = f.svc.Task.Get(ctx, outsider, task.ID)
	assert.ErrorIs(t, err, auth.ErrNotTaskParty)

	_, err = f.svc.Task.Update(ctx, student, task.ID, &dto.UpdateTaskRequest{Done: boolPtr(true)})
	assert.ErrorIs(t, err, auth.ErrNotCreator)
	assert.ErrorIs(t, f.svc.Task.Delete(ctx, student, task.ID), auth.ErrNotCreator)

	updated, err := f.svc.Task.Update(ctx, mentor, task.ID, &dto.UpdateTaskRequest{Done: boolPtr(true), DueDate: strPtr("2024-06-20")})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "2024-06-20", updated.DueDate)

	require.NoError(t, f.svc.Task.Delete(ctx, mentor, task.ID))
	_, err = f.svc.Task.Get(ctx, mentor, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTaskBuckets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.register(t, "lia", models.RoleStudent)

	for title, due := range map[string]string{"late": "2024-06-09", "now": "2024-06-10", "soon": "2024-06-11"} {
		_, err := f.svc.Task.Create(ctx, student, &dto.CreateTaskRequest{Title: title, DueDate: due})
		require.NoError(t, err)
	}
	done, err := f.svc.Task.Create(ctx, student, &dto.CreateTaskRequest{Title: "finished", DueDate: "2024-06-10"})
	require.NoError(t, err)
	_, err = f.svc.Task.Update(ctx, student, done.ID, &dto.UpdateTaskRequest{Done: boolPtr(true)})
	require.NoError(t, err)

	buckets, err := f.svc.Task.ListPending(ctx, student)
	require.NoError(t, err)
	require.Len(t, buckets.Overdue, 1)
	require.Len(t, buckets.Today, 1)
	require.Len(t, buckets.Future, 1)
	assert.Equal(t, "late", buckets.Overdue[0].Title)
	assert.Equal(t, "now", buckets.Today[0].Title)
	assert.Equal(t, "soon", buckets.Future[0].Title)

	today, err := f.svc.Task.ListToday(ctx, student)
	require.NoError(t, err)
	assert.Len(t, today, 2)
}

func TestTaskBucketUsesApplicationDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.register(t, "lia", models.RoleStudent)
	_, err := f.svc.Task.Create(ctx, student, &dto.CreateTaskRequest{Title: "t", DueDate: "2024-06-10"})
	require.NoError(t, err)

	// 23:30 BRT on the 10th is already the 11th in UTC
	f.now = time.Date(2024, 6, 10, 23, 30, 0, 0, brt)
	buckets, err := f.svc.Task.ListPending(ctx, student)
	require.NoError(t, err)
	assert.Len(t, buckets.Today, 1)
}

func TestAssignees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)

	resp, err := f.svc.Task.ListAssignees(ctx, mentor)
	require.NoError(t, err)
	assert.True(t, resp.CanAssign)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, student, resp.Users[0].ID)

	resp, err = f.svc.Task.ListAssignees(ctx, student)
	require.NoError(t, err)
	assert.False(t, resp.CanAssign)
	assert.Empty(t, resp.Users)
}

func TestDashboardAndCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mentor := f.register(t, "rafa", models.RoleMentor)
	student := f.register(t, "lia", models.RoleStudent)

	_, err := f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{Title: "Today", StartsAt: "2024-06-10T16:00", InviteeIDs: []int64{student}})
	require.NoError(t, err)
	_, err = f.svc.Meeting.Create(ctx, mentor, &dto.CreateMeetingRequest{Title: "Later", StartsAt: "2024-06-15T16:00", InviteeIDs: []int64{student}})
	require.NoError(t, err)
	_, err = f.svc.Task.Create(ctx, mentor, &dto.CreateTaskRequest{Title: "Due", DueDate: "2024-06-10", AssignTo: &student})
	require.NoError(t, err)
	_, err = f.svc.Chat.Send(ctx, mentor, "lia", &dto.SendMessageRequest{Content: "see you"})
	require.NoError(t, err)

	dash, err := f.svc.Dashboard.Dashboard(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", dash.Date)
	require.Len(t, dash.Meetings, 1)
	assert.Equal(t, "Today", dash.Meetings[0].Title)
	require.Len(t, dash.Tasks, 1)
	assert.Equal(t, 1, dash.Notifications)

	cal, err := f.svc.Dashboard.Calendar(ctx, student)
	require.NoError(t, err)
	assert.Len(t, cal.Meetings, 2)
	assert.Len(t, cal.Tasks.Today, 1)
}
