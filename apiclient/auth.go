package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/rs/zerolog/log"
)

// Identity is the signed in user as the backend reports it.
type Identity struct {
	Profile credentials.Profile
	Roles   []string
}

// Login exchanges an employee code (or email) and password for a token pair
// and starts a fresh session. It bypasses the refresh pipeline: a failed login
// is reported with the backend's message and never ends anything.
func (c *Client) Login(ctx context.Context, username, password string) (credentials.Session, error) {
	req, err := NewJSONRequest(http.MethodPost, c.cfg.LoginPath, map[string]string{
		"manv":     username,
		"password": password,
	})
	if err != nil {
		return credentials.Session{}, err
	}

	resp, err := c.roundTrip(ctx, req, "")
	if err != nil {
		c.metrics.request(req.Method, string(KindNetwork))
		return credentials.Session{}, &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		c.metrics.request(req.Method, string(KindPassthrough))
		return credentials.Session{}, &Error{
			Kind:    KindPassthrough,
			Status:  resp.Status,
			Message: resp.ErrorMessage(),
			Method:  req.Method,
			Path:    req.Path,
		}
	}

	var payload authPayload
	if err := resp.DecodeJSON(&payload); err != nil {
		return credentials.Session{}, err
	}
	if payload.Token == "" {
		return credentials.Session{}, fmt.Errorf("[apiclient Login] response has no token")
	}

	session := payload.session("")
	if err := c.store.Write(ctx, session); err != nil {
		return credentials.Session{}, fmt.Errorf("[apiclient Login] store credentials: %w", err)
	}
	c.setState(Authenticated)
	c.metrics.request(req.Method, "ok")
	if c.notifier != nil {
		c.notifier.Touch()
	}
	log.Info().Str("user", session.Profile.EmployeeCode).Msg("signed in")
	return session, nil
}

// Logout ends the session at the user's request.
func (c *Client) Logout(ctx context.Context) {
	c.endSession(ctx, CauseUser)
}

// Me asks the backend who the current token belongs to.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var payload authPayload
	if err := GetJSON(ctx, c, c.cfg.MePath, nil, &payload); err != nil {
		return Identity{}, err
	}
	return Identity{Profile: payload.profile(), Roles: payload.roles()}, nil
}
