package chathub

import "errors"

var (
	// ErrInvalidInput is reported back to the originating connection.
	ErrInvalidInput = errors.New("invalid user data")
	// ErrNotFound covers sessions, requests and connections that are already
	// gone. It is an expected race and is never surfaced to users.
	ErrNotFound = errors.New("not found")
	// ErrBlockedPairing is returned for friend requests between blocked users.
	// It is never surfaced, so block status stays private.
	ErrBlockedPairing = errors.New("pair is blocked")
)

// ErrHubStopped is returned by calls that need the hub loop after it exited.
var ErrHubStopped = errors.New("hub stopped")
