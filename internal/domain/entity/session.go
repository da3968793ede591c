package entity

// SessionState is the state of the single active session cell.
type SessionState string

const (
	// SessionAnonymous means no principal is active.
	SessionAnonymous SessionState = "ANONYMOUS"
	// SessionAuthenticated means exactly one principal is active.
	SessionAuthenticated SessionState = "AUTHENTICATED"
)

// String returns the string representation of the SessionState.
func (s SessionState) String() string {
	return string(s)
}
