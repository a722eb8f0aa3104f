// Package apiclient is the authenticated session client every backend call
// goes through. It attaches the bearer token, refreshes it ahead of expiry or
// after a 401, and ends the session when authentication cannot be recovered.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Notifier is told about every successful backend response.
// *activity.Monitor satisfies it.
type Notifier interface {
	Touch()
}

// LogoutFunc is called once each time the client moves into LoggedOut.
type LogoutFunc func(cause LogoutCause)

// Client mediates every call to the backend for one session.
type Client struct {
	cfg      Config
	store    credentials.Store
	http     *http.Client
	notifier Notifier
	onLogout LogoutFunc
	policy   *Policy
	metrics  *Metrics

	refreshGroup singleflight.Group

	mu    sync.Mutex
	state State
}

var _ Doer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout is left as given.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithNotifier is told about every successful response. The activity
// monitor uses it to postpone the idle deadline.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogoutFunc is called once each time the session ends, with the cause.
func WithLogoutFunc(f LogoutFunc) Option {
	return func(c *Client) {
		c.onLogout = f
	}
}

// WithPolicy sets the 401/403 classification. A nil policy treats every such
// answer as an auth failure.
func WithPolicy(p *Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithMetrics records request, refresh and logout counts. Nil disables them.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client reading and writing tokens through store.
func New(cfg Config, store credentials.Store, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:    cfg,
		store:  store,
		http:   &http.Client{Timeout: cfg.Timeout},
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the stored credentials.
func (c *Client) Session(ctx context.Context) (credentials.Session, error) {
	return c.store.Read(ctx)
}

// Do sends req with the session's bearer token, refreshing it first when it
// is about to expire. A 401 is answered with one refresh and one retry.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.State() == LoggedOut {
		return nil, &Error{Kind: KindUnrecoverableAuth, Method: req.Method, Path: req.Path, Err: ErrLoggedOut}
	}

	session, err := c.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("[apiclient Do] read credentials: %w", err)
	}

	bearer := session.AccessToken
	if bearer != "" {
		c.transition(Unauthenticated, Authenticated)
		if token.NeedsRefreshWithin(bearer, c.cfg.RefreshWindow) {
			fresh, err := c.refresh(ctx, TriggerProactive, bearer)
			if err != nil {
				// The response path deals with whatever the backend says
				// about an unauthenticated request.
				log.Debug().Err(err).Str("path", req.Path).Msg("proactive refresh failed, sending without a token")
				bearer = ""
			} else {
				bearer = fresh
			}
		}
	}

	return c.send(ctx, req, bearer, false)
}

// send runs one request and classifies its outcome. retried marks the one
// allowed retry after a refresh.
func (c *Client) send(ctx context.Context, req *Request, bearer string, retried bool) (*Response, error) {
	resp, err := c.roundTrip(ctx, req, bearer)
	if err != nil {
		c.metrics.request(req.Method, string(KindNetwork))
		return nil, &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}

	if resp.Status >= 200 && resp.Status < 300 {
		if c.notifier != nil {
			c.notifier.Touch()
		}
		c.metrics.request(req.Method, "ok")
		return resp, nil
	}

	message := resp.ErrorMessage()
	fail := func(kind Kind, cause error) (*Response, error) {
		c.metrics.request(req.Method, string(kind))
		e := &Error{Kind: kind, Status: resp.Status, Message: message, Method: req.Method, Path: req.Path, Err: cause}
		if kind == KindUnrecoverableAuth {
			e.Message = ""
		}
		return nil, e
	}

	switch {
	case resp.Status == http.StatusUnauthorized && c.isRefreshPath(req.Path):
		c.endSession(ctx, CauseRefreshEndpointAuth)
		return fail(KindRefreshEndpointAuth, nil)

	case resp.Status == http.StatusUnauthorized && !retried:
		fresh, err := c.refresh(ctx, TriggerUnauthorized, bearer)
		if err != nil {
			c.metrics.request(req.Method, string(kindOf(err)))
			return nil, err
		}
		log.Debug().Str("method", req.Method).Str("path", req.Path).Msg("retrying after token refresh")
		return c.send(ctx, req, fresh, true)

	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden:
		if c.policy.IsBusiness(resp.Status, req.Method, req.Path, message) {
			return fail(KindBusiness, nil)
		}
		log.Warn().Str("method", req.Method).Str("path", req.Path).Int("status", resp.Status).Msg("authorization failure, ending session")
		c.endSession(ctx, CauseUnrecoverableAuth)
		return fail(KindUnrecoverableAuth, ErrLoggedOut)

	default:
		return fail(KindPassthrough, nil)
	}
}

// roundTrip performs the HTTP exchange with no session policy applied.
func (c *Client) roundTrip(ctx context.Context, req *Request, bearer string) (*Response, error) {
	target := c.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if bearer != "" {
		(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func (c *Client) isRefreshPath(path string) bool {
	return strings.Contains(path, c.cfg.RefreshPath)
}

// transition moves from one state to another only if the client is in from.
func (c *Client) transition(from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// endSession clears the store and signals logout. Only the call that moves the
// client into LoggedOut signals; the store is cleared every time.
func (c *Client) endSession(ctx context.Context, cause LogoutCause) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Err(err).Str("cause", string(cause)).Msg("failed to clear credentials")
	}

	c.mu.Lock()
	first := c.state != LoggedOut
	c.state = LoggedOut
	c.mu.Unlock()
	if !first {
		return
	}

	c.metrics.logout(cause)
	log.Info().Str("cause", string(cause)).Msg("session ended")
	if c.onLogout != nil {
		c.onLogout(cause)
	}
}

// EndSession ends the session for cause, for example when the user has been
// idle too long.
func (c *Client) EndSession(ctx context.Context, cause LogoutCause) {
	c.endSession(ctx, cause)
}
