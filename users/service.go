package users

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
)

const (
	usersPath          = "/api/users"
	groupsPath         = "/api/groups"
	registerPath       = "/api/auth/dangky"
	changePasswordPath = "/api/auth/change-password"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := apiclient.GetJSON(ctx, s.api, usersPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[users List] %w", err)
	}
	return out, nil
}

func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	var out []Group
	if err := apiclient.GetJSON(ctx, s.api, groupsPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[users Groups] %w", err)
	}
	return out, nil
}

// Directory loads users and groups for resolving implementer references.
func (s *Service) Directory(ctx context.Context) (*Directory, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(users, groups), nil
}

// UpdateProfile changes the user's own record. The backend may reject it with
// 401 or 403 without ending the session.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, u ProfileUpdate) (User, error) {
	if u.FullName == "" || u.Email == "" {
		return User{}, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "[users UpdateProfile] full name and email are required")
	}
	var out User
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPut, usersPath+"/"+strconv.FormatInt(userID, 10), u, &out); err != nil {
		return User{}, fmt.Errorf("[users UpdateProfile] %d: %w", userID, err)
	}
	return out, nil
}

func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	if err := ValidateNewPassword(current, next); err != nil {
		return consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "[users ChangePassword] %s", err)
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPut, changePasswordPath, body, nil); err != nil {
		return fmt.Errorf("[users ChangePassword] %w", err)
	}
	return nil
}

// Register asks for a new account.
func (s *Service) Register(ctx context.Context, r Registration) (User, error) {
	if r.EmployeeCode == "" || r.Email == "" || r.Password == "" {
		return User{}, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "[users Register] employee code, email and password are required")
	}
	var out User
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, registerPath, r, &out); err != nil {
		return User{}, fmt.Errorf("[users Register] %w", err)
	}
	return out, nil
}
