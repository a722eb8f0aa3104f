// Package localtime handles the zone-less timestamps the backend sends, such as
// "2025-03-14T09:30:00".
package localtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the wire format written back to the backend.
const Layout = "2006-01-02T15:04:05"

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	Layout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Location is the zone backend timestamps are read in.
var Location = time.Local

// Time is a timestamp without a zone on the wire. The zero value encodes as
// null.
type Time struct {
	time.Time
}

// Parse reads s in any of the accepted layouts.
func Parse(s string) (Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("[localtime Parse] unrecognised timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(Location).Format(Layout))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("[localtime UnmarshalJSON] %w", err)
	}
	if s == "" {
		*t = Time{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// String renders the timestamp for display, or "" when unset.
func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location).Format("2006-01-02 15:04")
}
