// Package users reads the backend's user and group directory and edits the
// signed in user's own account.
package users

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/internal/localtime"
)

// RoleType is a backend role name without the ROLE_ prefix.
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"   // Can manage settings, recipients and every record
	RoleManager RoleType = "MANAGER" // Can manage checklists and SOPs
	RoleUser    RoleType = "USER"    // Regular user
)

const rolePrefix = "ROLE_"

// NormalizeRole strips the ROLE_ prefix some tokens carry and upper-cases the
// rest.
func NormalizeRole(role string) RoleType {
	r := strings.ToUpper(strings.TrimSpace(role))
	return RoleType(strings.TrimPrefix(r, rolePrefix))
}

// HasRole reports whether roles grant any of want.
func HasRole(roles []string, want ...RoleType) bool {
	for _, r := range roles {
		have := NormalizeRole(r)
		for _, w := range want {
			if have == w {
				return true
			}
		}
	}
	return false
}

// User statuses.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type User struct {
	UserID       int64           `json:"userID"`
	EmployeeCode string          `json:"manv"`
	FullName     string          `json:"fullName,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Status       string          `json:"status,omitempty"`
	Groups       []Group         `json:"groups,omitempty"`
	CreatedAt    *localtime.Time `json:"createdAt,omitempty"`
}

// DisplayName is the name to show for u.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.EmployeeCode != "":
		return u.EmployeeCode
	default:
		return fmt.Sprintf("User %d", u.UserID)
	}
}

type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Directory resolves "user:<id>" and "group:<id>" references to names.
type Directory struct {
	users  map[int64]User
	groups map[int64]Group
}

func NewDirectory(users []User, groups []Group) *Directory {
	d := &Directory{users: make(map[int64]User, len(users)), groups: make(map[int64]Group, len(groups))}
	for _, u := range users {
		d.users[u.UserID] = u
	}
	for _, g := range groups {
		d.groups[g.ID] = g
	}
	return d
}

// Label returns a display name for ref. Unknown references are returned
// unchanged.
func (d *Directory) Label(ref string) string {
	kind, rawID, ok := strings.Cut(ref, ":")
	if !ok {
		return ref
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return ref
	}
	switch kind {
	case "user":
		if u, ok := d.users[id]; ok {
			return u.DisplayName()
		}
		return fmt.Sprintf("User %d", id)
	case "group":
		if g, ok := d.groups[id]; ok {
			return g.Name
		}
		return fmt.Sprintf("Group %d", id)
	default:
		return ref
	}
}

// Labels maps Label over refs.
func (d *Directory) Labels(refs []string) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = d.Label(r)
	}
	return out
}

// UserRef and GroupRef build implementer references.
func UserRef(id int64) string  { return "user:" + strconv.FormatInt(id, 10) }
func GroupRef(id int64) string { return "group:" + strconv.FormatInt(id, 10) }

// ProfileUpdate is the body of a self-service profile change.
type ProfileUpdate struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// Registration is a new account request. New accounts start INACTIVE until an
// administrator enables them.
type Registration struct {
	EmployeeCode string  `json:"manv"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	Password     string  `json:"password"`
	GroupIDs     []int64 `json:"groupIds,omitempty"`
}

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

// ValidateNewPassword checks a password change before it is sent:
// - At least MinPasswordLength characters, ignoring surrounding spaces
// - Different from the current password
// - Not only whitespace or control characters
func ValidateNewPassword(current, next string) error {
	if len([]rune(strings.TrimSpace(next))) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if current == next {
		return fmt.Errorf("new password must differ from the current one")
	}
	for _, r := range next {
		if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
			return nil
		}
	}
	return fmt.Errorf("password must contain a visible character")
}

// FromProfile builds a User from the profile held in a session.
func FromProfile(p credentials.Profile) User {
	return User{
		UserID:       p.UserID,
		EmployeeCode: p.EmployeeCode,
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		Status:       p.Status,
	}
}
