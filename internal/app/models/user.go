package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Username    string     `json:"username" db:"username" example:"ana.souza"`
	Email       string     `json:"email" db:"email" example:"ana@example.com"`
	Password    string     `json:"-" db:"password"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Ana"`
	LastName    string     `json:"lastName" db:"last_name" example:"Souza"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Profile *Profile `json:"profile,omitempty"` // Relation, no db tag
}

// FullName returns "first last", or the username when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Role returns the profile role, defaulting to student when the profile is not loaded.
func (u *User) Role() RoleType {
	if u.Profile == nil || !u.Profile.RoleType.IsValid() {
		return RoleStudent
	}
	return u.Profile.RoleType
}

// IsMentor reports whether the user's profile role is mentor
func (u *User) IsMentor() bool {
	return u.Role() == RoleMentor
}

// Profile defines the profile model based on the 'profiles' table.
// Every user has exactly one.
type Profile struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	RoleType   RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	Bio        string    `json:"bio" db:"bio"`
	Age        *int      `json:"age,omitempty" db:"age"`
	Profession string    `json:"profession" db:"profession"`
	Education  string    `json:"education" db:"education"`
	Company    string    `json:"company" db:"company"`
	Phone      string    `json:"phone" db:"phone"`
	PhotoURL   *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// NewDefaultProfile returns the profile created for a user that has none
func NewDefaultProfile(userID int64, role RoleType) *Profile {
	if !role.IsValid() {
		role = RoleStudent
	}
	return &Profile{UserID: userID, RoleType: role}
}
