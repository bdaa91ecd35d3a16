package models

import "strings"

// RoleType defines the profile role of a user
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleMentor  RoleType = "MENTOR"
)

// roleAliases maps the accepted query spellings (English and Portuguese) to a role.
var roleAliases = map[string]RoleType{
	"student":    RoleStudent,
	"students":   RoleStudent,
	"estudante":  RoleStudent,
	"estudantes": RoleStudent,
	"mentor":     RoleMentor,
	"mentors":    RoleMentor,
	"mentores":   RoleMentor,
}

// IsValid reports whether r is one of the known roles
func (r RoleType) IsValid() bool {
	return r == RoleStudent || r == RoleMentor
}

// ParseRoleType resolves a role name or alias, case-insensitively.
// The second result is false for empty or unknown values.
func ParseRoleType(s string) (RoleType, bool) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return role, ok
}

// PostOrder is the sort order of the forum feed
type PostOrder string

const (
	PostOrderRecent PostOrder = "recent"
	PostOrderLikes  PostOrder = "likes"
)

var postOrderAliases = map[string]PostOrder{
	"recent":    PostOrderRecent,
	"recentes":  PostOrderRecent,
	"data":      PostOrderRecent,
	"likes":     PostOrderLikes,
	"curtidas":  PostOrderLikes,
	"populares": PostOrderLikes,
	"popular":   PostOrderLikes,
}

// ParsePostOrder resolves an order name or alias. Unknown values fall back to recency.
func ParsePostOrder(s string) PostOrder {
	if order, ok := postOrderAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return order
	}
	return PostOrderRecent
}
