package core

// Frame is a raw outbound payload, already encoded.
type Frame []byte

// ConnID is the transport-assigned id of one active connection.
// Distinct from the user-chosen display name.
type ConnID string

// Connection abstracts a client messaging transport.
// Owned by the adapter; the adapter must Close() it.
type Connection interface {
	TrySend(Frame) error
	Close()
}
