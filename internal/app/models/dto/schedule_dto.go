package dto

import (
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
)

// CreateMeetingRequest schedules a meeting. StartsAt is a local wall-clock
// value ("2006-01-02T15:04") or RFC 3339.
type CreateMeetingRequest struct {
	Title      string  `json:"title" binding:"required,notblank,max=200" example:"Career chat"`
	StartsAt   string  `json:"startsAt" binding:"required" example:"2025-05-10T14:30"`
	Link       string  `json:"link" binding:"omitempty,url,max=500" example:"https://meet.example.com/abc"`
	InviteeIDs []int64 `json:"inviteeIds" binding:"omitempty,dive,gt=0"`
}

// UpdateMeetingRequest edits a meeting. The start may be given as StartsAt or
// as separate Date and Time fields; InviteeIDs replaces the invitee list when present.
type UpdateMeetingRequest struct {
	Title      *string  `json:"title" binding:"omitempty,notblank,max=200"`
	StartsAt   *string  `json:"startsAt"`
	Date       *string  `json:"date" example:"2025-05-10"`
	Time       *string  `json:"time" example:"14:30"`
	Link       *string  `json:"link" binding:"omitempty,max=500"`
	InviteeIDs *[]int64 `json:"inviteeIds" binding:"omitempty,dive,gt=0"`
}

// MeetingResponse is the view of a meeting
type MeetingResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	StartsAt    time.Time     `json:"startsAt"`
	Link        string        `json:"link,omitempty"`
	Requester   *UserSummary  `json:"requester,omitempty"`
	Invitees    []UserSummary `json:"invitees"`
	IsRequester bool          `json:"isRequester"`
}

// CreateTaskRequest creates a task. AssignTo is honoured for mentors only.
type CreateTaskRequest struct {
	Title    string `json:"title" binding:"required,notblank,max=200" example:"Read chapter 3"`
	Info     string `json:"info" binding:"max=5000"`
	DueDate  string `json:"dueDate" binding:"required" example:"2025-05-12"`
	AssignTo *int64 `json:"assignTo" binding:"omitempty,gt=0"`
}

// UpdateTaskRequest edits a task. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title   *string `json:"title" binding:"omitempty,notblank,max=200"`
	Info    *string `json:"info" binding:"omitempty,max=5000"`
	DueDate *string `json:"dueDate"`
	Done    *bool   `json:"done"`
}

// TaskResponse is the view of a task
type TaskResponse struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Info      string       `json:"info,omitempty"`
	DueDate   string       `json:"dueDate" example:"2025-05-12"`
	Done      bool         `json:"done"`
	Bucket    string       `json:"bucket" example:"today"`
	Owner     *UserSummary `json:"owner,omitempty"`
	Creator   *UserSummary `json:"creator,omitempty"`
	IsCreator bool         `json:"isCreator"`
}

// TaskBuckets groups tasks by due date
type TaskBuckets struct {
	Today   []TaskResponse `json:"today"`
	Future  []TaskResponse `json:"future"`
	Overdue []TaskResponse `json:"overdue"`
}

// AssigneesResponse lists who the caller may assign tasks to
type AssigneesResponse struct {
	CanAssign bool          `json:"canAssign"`
	Users     []UserSummary `json:"users"`
}

// DashboardResponse is today's view for the caller
type DashboardResponse struct {
	Date          string            `json:"date" example:"2025-05-10"`
	Meetings      []MeetingResponse `json:"meetings"`
	Tasks         []TaskResponse    `json:"tasks"`
	Notifications int               `json:"notifications"`
}

// CalendarResponse lists upcoming meetings and pending tasks
type CalendarResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
	Tasks    TaskBuckets       `json:"tasks"`
}

// ToMeetingResponse converts a meeting as seen by viewerID
func ToMeetingResponse(m *models.Meeting, viewerID int64) MeetingResponse {
	invitees := make([]UserSummary, 0, len(m.Invitees))
	for _, u := range m.Invitees {
		invitees = append(invitees, *ToUserSummary(u))
	}
	return MeetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		StartsAt:    m.StartsAt,
		Link:        m.Link,
		Requester:   ToUserSummary(m.Requester),
		Invitees:    invitees,
		IsRequester: m.RequesterID == viewerID,
	}
}

// ToMeetingResponses converts a slice of meetings
func ToMeetingResponses(meetings []*models.Meeting, viewerID int64) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, ToMeetingResponse(m, viewerID))
	}
	return out
}

// ToTaskResponse converts a task as seen by viewerID on the given day
func ToTaskResponse(t *models.Task, viewerID int64, today time.Time) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Info:      t.Info,
		DueDate:   t.DueDate.Format("2006-01-02"),
		Done:      t.Done,
		Bucket:    string(t.Bucket(today)),
		Owner:     ToUserSummary(t.Owner),
		Creator:   ToUserSummary(t.Creator),
		IsCreator: t.CreatorID == viewerID,
	}
}

// NewTaskBuckets returns empty, non-nil buckets
func NewTaskBuckets() TaskBuckets {
	return TaskBuckets{
		Today:   []TaskResponse{},
		Future:  []TaskResponse{},
		Overdue: []TaskResponse{},
	}
}

// Add places a task into its bucket
func (b *TaskBuckets) Add(t TaskResponse) {
	switch models.TaskBucket(t.Bucket) {
	case models.TaskBucketToday:
		b.Today = append(b.Today, t)
	case models.TaskBucketFuture:
		b.Future = append(b.Future, t)
	default:
		b.Overdue = append(b.Overdue, t)
	}
}
