package core

// Participant is the presence metadata a connection announces when joining
// a room. All fields are caller-supplied and untrusted; the server never
// validates them beyond treating missing optional fields as absent.
type Participant struct {
	UserID      string
	DisplayName string
	PhotoURL    string
}

// Member pairs a connection id with the participant info it announced.
// Returned by registry snapshots.
type Member struct {
	ConnectionID string
	Participant  Participant

	client *Client
}
