package chathub

import "videomatch/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can be driven by WebSockets in production
// and by in-memory doubles in tests.
type Client interface {
	// GetConnID returns the ephemeral connection identifier. It is unique
	// among live connections and never reused.
	GetConnID() string

	// GetSendChannel returns the buffered channel the hub writes outbound
	// events to. The hub never blocks on it.
	GetSendChannel() chan<- models.Outbound

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the outbound side down. The hub calls it exactly once,
	// after the client has been removed from its tables.
	Close()
}
