package domain

import "errors"

var (
	// ErrRemoteUnavailable signals that the remote backend is unreachable or
	// not configured. It is never surfaced to callers of the mutation API;
	// the fallback path converts it into a successful local mutation.
	ErrRemoteUnavailable = errors.New("remote backend unavailable")

	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("record not found")
	ErrOwnerExists    = errors.New("owner already exists")
	ErrForbidden      = errors.New("access forbidden")
)
