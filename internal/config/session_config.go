package config

import "time"

type Session struct{}

var _ SessionConfig = Session{}

// GetIdleTimeout is the inactivity period after which a console session is
// logged out.
func (Session) GetIdleTimeout() time.Duration {
	return 30 * time.Minute
}

// GetRefreshWindow is how close to expiry an access token may get before it is
// refreshed ahead of a request.
func (Session) GetRefreshWindow() time.Duration {
	return 5 * time.Minute
}

func (Session) GetRequestTimeout() time.Duration {
	return 100 * time.Second
}

func (Session) GetRefreshPath() string {
	return "/api/auth/refresh"
}

func (Session) GetLoginPath() string {
	return "/api/auth/dangnhap"
}

func (Session) GetMePath() string {
	return "/api/auth/me"
}
