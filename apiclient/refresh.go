package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/token"
	"github.com/rs/zerolog/log"
)

const refreshKey = "refresh"

// authPayload is what the login and refresh endpoints return. Older backends
// use nguoiDung/quyenList, newer ones profile/roles.
type authPayload struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
	NguoiDung    *credentials.Profile `json:"nguoiDung"`
	Profile      *credentials.Profile `json:"profile"`
	QuyenList    []string             `json:"quyenList"`
	Roles        []string             `json:"roles"`
}

func (p authPayload) profile() credentials.Profile {
	switch {
	case p.Profile != nil:
		return *p.Profile
	case p.NguoiDung != nil:
		return *p.NguoiDung
	default:
		return credentials.Profile{}
	}
}

func (p authPayload) roles() []string {
	if p.Roles != nil {
		return p.Roles
	}
	return p.QuyenList
}

func (p authPayload) session(fallbackRefresh string) credentials.Session {
	refresh := p.RefreshToken
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return credentials.Session{
		AccessToken:  p.Token,
		RefreshToken: refresh,
		Profile:      p.profile(),
		Roles:        p.roles(),
	}
}

// refresh returns a new access token. Concurrent callers share one call to
// the refresh endpoint and all see its result. The shared call is detached
// from the caller that started it, so one caller giving up does not fail the
// others; a caller whose ctx ends stops waiting with a network error.
//
// stale is the token the caller found wanting. If the store already holds a
// different, usable token, a refresh settled in the meantime and its token is
// returned without another call.
func (c *Client) refresh(ctx context.Context, trigger, stale string) (string, error) {
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return c.doRefresh(context.WithoutCancel(ctx), trigger, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &Error{Kind: KindNetwork, Method: http.MethodPost, Path: c.cfg.RefreshPath, Err: ctx.Err()}
	}
}

func (c *Client) doRefresh(ctx context.Context, trigger, stale string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	fail := func(kind Kind, cause LogoutCause, status int, message string, err error) (string, error) {
		c.metrics.refresh(trigger, false)
		log.Warn().Err(err).Str("trigger", trigger).Int("status", status).Msg("token refresh failed")
		c.endSession(ctx, cause)
		return "", &Error{Kind: kind, Status: status, Message: message, Method: http.MethodPost, Path: c.cfg.RefreshPath, Err: err}
	}

	session, err := c.store.Read(ctx)
	if err != nil {
		return fail(KindRefreshFailed, CauseRefreshFailed, 0, "", err)
	}
	if current := session.AccessToken; current != "" && current != stale && !token.NeedsRefreshWithin(current, c.cfg.RefreshWindow) {
		return current, nil
	}
	if session.RefreshToken == "" {
		return fail(KindRefreshFailed, CauseNoRefreshToken, 0, "", ErrNoRefreshToken)
	}

	c.mu.Lock()
	if c.state != LoggedOut {
		c.state = Refreshing
	}
	c.mu.Unlock()

	req, err := NewJSONRequest(http.MethodPost, c.cfg.RefreshPath, map[string]string{"refreshToken": session.RefreshToken})
	if err != nil {
		return fail(KindRefreshFailed, CauseRefreshFailed, 0, "", err)
	}

	resp, err := c.roundTrip(ctx, req, "")
	if err != nil {
		return fail(KindRefreshFailed, CauseRefreshFailed, 0, "", err)
	}
	switch {
	case resp.Status == http.StatusUnauthorized:
		return fail(KindRefreshEndpointAuth, CauseRefreshEndpointAuth, resp.Status, resp.ErrorMessage(), nil)
	case resp.Status < 200 || resp.Status >= 300:
		return fail(KindRefreshFailed, CauseRefreshFailed, resp.Status, resp.ErrorMessage(), nil)
	}

	var payload authPayload
	if err := resp.DecodeJSON(&payload); err != nil {
		return fail(KindRefreshFailed, CauseRefreshFailed, resp.Status, "", err)
	}
	if payload.Token == "" {
		return fail(KindRefreshFailed, CauseRefreshFailed, resp.Status, "", errors.New("refresh response has no token"))
	}

	if c.State() == LoggedOut {
		// The session ended while the refresh was in flight.
		c.metrics.refresh(trigger, false)
		return "", &Error{Kind: KindRefreshFailed, Method: http.MethodPost, Path: c.cfg.RefreshPath, Err: ErrLoggedOut}
	}
	if err := c.store.Write(ctx, payload.session(session.RefreshToken)); err != nil {
		return fail(KindRefreshFailed, CauseRefreshFailed, resp.Status, "", err)
	}

	c.transition(Refreshing, Authenticated)
	c.metrics.refresh(trigger, true)
	log.Debug().Str("trigger", trigger).Msg("token refreshed")
	return payload.Token, nil
}
