package apiclient

// State is where a Client is in the session lifecycle.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Refreshing
	// LoggedOut is terminal until the next Login.
	LoggedOut
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}
