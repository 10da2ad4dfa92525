package domain

// OnlineUser pairs a live connection id with its claimed display name.
// Entries appear in the onlineUsers broadcast.
type OnlineUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
