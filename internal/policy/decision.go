package policy

import appErrors "github.com/noah-isme/edusphere-api/pkg/errors"

// Decision is the typed outcome of an authorization check.
type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
	UnknownRoute
	UnknownAction
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case UnknownRoute:
		return "unknown_route"
	case UnknownAction:
		return "unknown_action"
	}
	return "invalid"
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Allowed
}

// Err maps a denial to its API error; nil when allowed.
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case Unauthenticated:
		return appErrors.ErrUnauthenticated
	case UnknownRoute:
		return appErrors.ErrUnknownRoute
	case UnknownAction:
		return appErrors.Clone(appErrors.ErrForbidden, "unknown action")
	}
	return appErrors.ErrForbidden
}
