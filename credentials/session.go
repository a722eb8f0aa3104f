package credentials

import (
	"context"
	"slices"
)

// Profile is the user record the backend returns with every token pair.
type Profile struct {
	UserID       int64  `json:"userID,omitempty"`
	EmployeeCode string `json:"manv,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Session is everything the console knows about the signed in user. Absent
// values are allowed individually.
type Session struct {
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	Profile      Profile  `json:"profile"`
	Roles        []string `json:"roles,omitempty"`
}

// Empty reports whether the session holds no tokens.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	s.Roles = slices.Clone(s.Roles)
	return s
}

// Store persists a single Session. Write and Clear replace every field in one
// step, so a reader never sees a new access token paired with a stale refresh
// token.
type Store interface {
	Read(ctx context.Context) (Session, error)
	Write(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}
