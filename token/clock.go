package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/sop-console/internal/utils"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// RefreshWindow is the remaining validity below which an access token is
// refreshed before use.
const RefreshWindow = 5 * time.Minute

var (
	ErrMalformed = errors.New("malformed access token")
	ErrNoExpiry  = errors.New("access token has no exp claim")
)

// Claims are the parts of an access token the console reads locally. They come
// from an unverified payload: good enough to estimate expiry, never to make an
// authorization decision.
type Claims struct {
	Subject   string
	Roles     []string
	ExpiresAt time.Time
}

// NeedsRefresh reports whether raw should be refreshed before it is sent. A
// token that cannot be decoded, or that carries no exp, always needs a refresh.
func NeedsRefresh(raw string) bool {
	return NeedsRefreshWithin(raw, RefreshWindow)
}

// NeedsRefreshWithin is NeedsRefresh with a caller supplied window.
func NeedsRefreshWithin(raw string, window time.Duration) bool {
	exp, err := Expiry(raw)
	if err != nil {
		return true
	}
	return exp.Sub(NowTimeFunc()) < window
}

// Expiry returns the exp claim of raw.
func Expiry(raw string) (time.Time, error) {
	claims, err := Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt.IsZero() {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt, nil
}

// Parse decodes the payload of raw without checking its signature.
func Parse(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, ErrMalformed
	}

	unverified, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	mapClaims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	sub, _ := mapClaims.GetSubject()

	claims := Claims{Subject: sub}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if roles, ok := mapClaims["roles"].([]any); ok {
		claims.Roles = utils.ToStringSlice(roles)
	}
	return claims, nil
}
