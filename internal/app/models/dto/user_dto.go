package dto

import (
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
)

// RegisterRequest represents the sign-up payload
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150,username" example:"ana.souza"`
	Email     string `json:"email" binding:"required,email,max=255" example:"ana@example.com"`
	Password  string `json:"password" binding:"required,min=8,max=72" example:"Secret123!"`
	FirstName string `json:"firstName" binding:"max=150" example:"Ana"`
	LastName  string `json:"lastName" binding:"max=150" example:"Souza"`
	RoleType  string `json:"roleType" binding:"omitempty,oneof=STUDENT MENTOR" example:"STUDENT"`
}

// LoginRequest accepts a username or an email as identifier
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ana.souza"`
	Password string `json:"password" binding:"required" example:"Secret123!"`
}

// TokenResponse is returned by a successful login or registration
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"86400"`
	User        UserResponse `json:"user"`
}

// UpdateProfileRequest edits both the user row and its profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username   *string `json:"username" binding:"omitempty,min=3,max=150,username"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName  *string `json:"firstName" binding:"omitempty,max=150"`
	LastName   *string `json:"lastName" binding:"omitempty,max=150"`
	Bio        *string `json:"bio" binding:"omitempty,max=2000"`
	Age        *int    `json:"age" binding:"omitempty,min=1,max=130"`
	Profession *string `json:"profession" binding:"omitempty,max=100"`
	Education  *string `json:"education" binding:"omitempty,max=150"`
	Company    *string `json:"company" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	PhotoURL   *string `json:"photoUrl" binding:"omitempty,url,max=500"`
}

// UserSummary is the compact form used inside other resources
type UserSummary struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"ana.souza"`
	FullName string `json:"fullName" example:"Ana Souza"`
	RoleType string `json:"roleType" example:"STUDENT"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// ProfileResponse carries the profile fields
type ProfileResponse struct {
	RoleType   string  `json:"roleType" example:"MENTOR"`
	Bio        string  `json:"bio"`
	Age        *int    `json:"age,omitempty"`
	Profession string  `json:"profession"`
	Education  string  `json:"education"`
	Company    string  `json:"company"`
	Phone      string  `json:"phone,omitempty"`
	PhotoURL   *string `json:"photoUrl,omitempty"`
}

// UserResponse is the full view of the authenticated user
type UserResponse struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	IsActive    bool            `json:"isActive"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Profile     ProfileResponse `json:"profile"`
}

// PublicProfileResponse is what any visitor sees for /users/:username
type PublicProfileResponse struct {
	Username  string          `json:"username"`
	FullName  string          `json:"fullName"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Profile   ProfileResponse `json:"profile"`
}

// MemberResponse is a members-list entry
type MemberResponse struct {
	UserSummary
	Online bool `json:"online"`
}

// MembersResponse splits active members by role
type MembersResponse struct {
	Mentors     []MemberResponse `json:"mentors"`
	Students    []MemberResponse `json:"students"`
	OnlineCount int              `json:"onlineCount"`
}

// ToUserSummary converts a user to its summary form. A nil user yields nil.
func ToUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	s := &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		RoleType: string(u.Role()),
	}
	if u.Profile != nil && u.Profile.PhotoURL != nil {
		s.PhotoURL = *u.Profile.PhotoURL
	}
	return s
}

// ToUserSummaries converts a slice of users
func ToUserSummaries(users []*models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserSummary(u))
	}
	return out
}

// ToProfileResponse converts a profile; a nil profile yields the defaults
func ToProfileResponse(p *models.Profile) ProfileResponse {
	if p == nil {
		return ProfileResponse{RoleType: string(models.RoleStudent)}
	}
	return ProfileResponse{
		RoleType:   string(p.RoleType),
		Bio:        p.Bio,
		Age:        p.Age,
		Profession: p.Profession,
		Education:  p.Education,
		Company:    p.Company,
		Phone:      p.Phone,
		PhotoURL:   p.PhotoURL,
	}
}

// ToUserResponse converts a user with its profile
func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		Profile:     ToProfileResponse(u.Profile),
	}
}

// ToPublicProfileResponse hides the private fields of a user
func ToPublicProfileResponse(u *models.User) PublicProfileResponse {
	profile := ToProfileResponse(u.Profile)
	profile.Phone = ""
	return PublicProfileResponse{
		Username:  u.Username,
		FullName:  u.FullName(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Profile:   profile,
	}
}
