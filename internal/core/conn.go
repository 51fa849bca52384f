package core

// Frame is a raw encoded payload handed to a transport.
type Frame []byte

// HandleID names one live network connection. One physical client session
// owns exactly one handle; a user with several devices holds several.
type HandleID string

// ClientConnection abstracts the outbound half of a client transport.
// Owned by the adapter; the adapter must Close() it, exactly once.
type ClientConnection interface {
	// TrySend queues a frame without blocking. It fails fast when the
	// peer's buffer is full or the connection is already closed.
	TrySend(Frame) error
	Close()
}
