package authz

import "errors"

// Common authorization errors.
var (
	// ErrMissingAction indicates the request carried no action.
	ErrMissingAction = errors.New("authorization request requires an action")

	// ErrMissingResource indicates the request carried no resource.
	ErrMissingResource = errors.New("authorization request requires a resource")
)
