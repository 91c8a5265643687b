package lifecycle

import "errors"

// Catalog construction and evaluation errors.
var (
	// ErrInvalidCatalog indicates the rules violate a structural invariant.
	ErrInvalidCatalog = errors.New("invalid state catalog")

	// ErrUnknownTarget indicates a transition points at a status missing
	// from the catalog.
	ErrUnknownTarget = errors.New("transition target not in catalog")

	// ErrUnreachableTransition indicates a transition guard has an empty
	// role set.
	ErrUnreachableTransition = errors.New("transition has empty guard role set")

	// ErrPublicGuard indicates a mutating transition lists the public role.
	ErrPublicGuard = errors.New("public role may not guard a transition")
)
