package activity

import "strings"

// Kind is a user interaction that counts as activity.
type Kind string

const (
	PointerDown Kind = "pointerdown"
	PointerMove Kind = "pointermove"
	KeyPress    Kind = "keypress"
	Scroll      Kind = "scroll"
	TouchStart  Kind = "touchstart"
	Click       Kind = "click"
)

// Kinds lists every qualifying interaction kind.
var Kinds = []Kind{PointerDown, PointerMove, KeyPress, Scroll, TouchStart, Click}

// ParseKind maps a browser event name onto a qualifying Kind. The legacy
// "mousedown" and "mousemove" names are accepted as pointer events.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "mousedown":
		return PointerDown, true
	case "mousemove":
		return PointerMove, true
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Qualifies reports whether k resets the idle deadline.
func (k Kind) Qualifies() bool {
	_, ok := ParseKind(string(k))
	return ok
}
