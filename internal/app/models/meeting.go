package models

import "time"

// Meeting is scheduled by a requester and attended by any number of invitees
type Meeting struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	StartsAt    time.Time `json:"startsAt" db:"starts_at"`
	Link        string    `json:"link" db:"link"`
	RequesterID int64     `json:"requesterId" db:"requester_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Requester *User   `json:"requester,omitempty"`
	Invitees  []*User `json:"invitees,omitempty"`
}

// InviteeIDs returns the IDs of the loaded invitees
func (m *Meeting) InviteeIDs() []int64 {
	ids := make([]int64, 0, len(m.Invitees))
	for _, u := range m.Invitees {
		ids = append(ids, u.ID)
	}
	return ids
}

// IsInvited reports whether userID is among the invitees
func (m *Meeting) IsInvited(userID int64) bool {
	for _, u := range m.Invitees {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether userID is the requester or an invitee
func (m *Meeting) VisibleTo(userID int64) bool {
	return m.RequesterID == userID || m.IsInvited(userID)
}
