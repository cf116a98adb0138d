package room

import "quadpong/session"

// Commands accepted on Room.Inbox. All of them are applied by the room loop, one
// at a time, between ticks.

// Attach registers a connection. It receives the current state right away and
// every broadcast after that, whether or not it ever joins.
type Attach struct {
	ID   string
	Conn Conn
}

// Join asks for a seat. Reply, if set, must be buffered.
type Join struct {
	ID    string
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	Participant session.Participant
	IsHost      bool
	Err         error
}

// Move carries a paddle direction, already clamped to -1, 0 or +1.
type Move struct {
	ID        string
	Direction int
}

// Start and ReturnToLobby are honored only from the host.
type Start struct {
	ID string
}

type ReturnToLobby struct {
	ID string
}

// Leave is issued on disconnect.
type Leave struct {
	ID string
}
