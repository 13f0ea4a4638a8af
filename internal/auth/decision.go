package auth

type Outcome int

const (
	Proceed Outcome = iota
	Deny
	Forbidden
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case Deny:
		return "deny"
	case Forbidden:
		return "forbidden"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard. Identity is set for Proceed after
// authentication and for Redirect; Location is only set for Redirect.
type Decision struct {
	Outcome  Outcome
	Identity Identity
	Location string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Proceed
}

// Err maps a terminal outcome to its sentinel error. Proceed and Redirect
// return nil.
func (d Decision) Err() error {
	switch d.Outcome {
	case Deny:
		return ErrUnauthenticated
	case Forbidden:
		return ErrForbidden
	default:
		return nil
	}
}
