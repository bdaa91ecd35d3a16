package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleType(t *testing.T) {
	cases := map[string]RoleType{
		"mentor":     RoleMentor,
		"MENTOR":     RoleMentor,
		"Mentores":   RoleMentor,
		"student":    RoleStudent,
		"estudante":  RoleStudent,
		"estudantes": RoleStudent,
	}
	for in, want := range cases {
		got, ok := ParseRoleType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseRoleType("")
	assert.False(t, ok)
	_, ok = ParseRoleType("admin")
	assert.False(t, ok)
}

func TestParsePostOrder(t *testing.T) {
	assert.Equal(t, PostOrderLikes, ParsePostOrder("curtidas"))
	assert.Equal(t, PostOrderLikes, ParsePostOrder("Populares"))
	assert.Equal(t, PostOrderLikes, ParsePostOrder("likes"))
	assert.Equal(t, PostOrderRecent, ParsePostOrder("data"))
	assert.Equal(t, PostOrderRecent, ParsePostOrder(""))
	assert.Equal(t, PostOrderRecent, ParsePostOrder("whatever"))
}

func TestUserRole(t *testing.T) {
	u := &User{ID: 1, Username: "ana"}
	assert.Equal(t, RoleStudent, u.Role())
	assert.False(t, u.IsMentor())
	assert.Equal(t, "ana", u.FullName())

	u.Profile = NewDefaultProfile(1, RoleMentor)
	u.FirstName, u.LastName = "Ana", "Souza"
	assert.True(t, u.IsMentor())
	assert.Equal(t, "Ana Souza", u.FullName())

	assert.Equal(t, RoleStudent, NewDefaultProfile(2, "").RoleType)
}

func TestMeetingVisibleTo(t *testing.T) {
	m := &Meeting{RequesterID: 1, Invitees: []*User{{ID: 2}, {ID: 3}}}

	assert.True(t, m.VisibleTo(1))
	assert.True(t, m.VisibleTo(2))
	assert.True(t, m.VisibleTo(3))
	assert.False(t, m.VisibleTo(4))
	assert.Equal(t, []int64{2, 3}, m.InviteeIDs())
}

func TestTaskVisibleTo(t *testing.T) {
	task := &Task{OwnerID: 2, CreatorID: 1}

	assert.True(t, task.VisibleTo(1))
	assert.True(t, task.VisibleTo(2))
	assert.False(t, task.VisibleTo(3))
	assert.True(t, task.IsAssigned())
}

func TestTaskBucket(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 23:30 local is already the next day in UTC; the local date must win.
	today := time.Date(2024, 5, 10, 23, 30, 0, 0, loc)

	due := func(y int, m time.Month, d int) *Task {
		return &Task{DueDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
	}

	assert.Equal(t, TaskBucketToday, due(2024, 5, 10).Bucket(today))
	assert.Equal(t, TaskBucketFuture, due(2024, 5, 11).Bucket(today))
	assert.Equal(t, TaskBucketFuture, due(2025, 1, 1).Bucket(today))
	assert.Equal(t, TaskBucketOverdue, due(2024, 5, 9).Bucket(today))
	assert.Equal(t, TaskBucketOverdue, due(2023, 12, 31).Bucket(today))
}

func TestCommentThreadRoot(t *testing.T) {
	parent := int64(7)
	top := &Comment{ID: 7}
	reply := &Comment{ID: 9, ParentID: &parent}

	assert.True(t, top.IsTopLevel())
	assert.False(t, reply.IsTopLevel())
	assert.Equal(t, int64(7), top.ThreadRootID())
	assert.Equal(t, int64(7), reply.ThreadRootID())
}

func TestMessageCounterpart(t *testing.T) {
	m := &Message{SenderID: 1, RecipientID: 2}

	assert.True(t, m.Involves(1))
	assert.True(t, m.Involves(2))
	assert.False(t, m.Involves(3))
	assert.Equal(t, int64(2), m.Counterpart(1))
	assert.Equal(t, int64(1), m.Counterpart(2))
}
