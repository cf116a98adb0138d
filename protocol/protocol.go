package protocol

// Inbound kinds, client to host.
const (
	MsgJoin          = "joinGame"
	MsgPaddleMove    = "paddleMove"
	MsgStart         = "startGame"
	MsgReturnToLobby = "returnToLobby"
)

// Outbound kinds, host to client.
const (
	MsgState    = "gameState"
	MsgAssigned = "playerAssigned"
	MsgFull     = "gameFull"
)

// SimTickHz is the simulation rate. Every tick is broadcast.
const SimTickHz = 60

// Envelope is a decoded frame. Data stays encoded until DecodePayload.
type Envelope struct {
	Type string
	Data []byte

	codec Codec
}
