package core

// Client is one live connection as seen by the core layer. It exists only
// while the underlying link is open and has no identity beyond it.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		done:     make(chan struct{}),
	}
}
