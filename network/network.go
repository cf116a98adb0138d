// Package network carries room traffic over websockets.
package network

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"quadpong/protocol"
	"quadpong/room"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	maxFrameSize = 1 << 16
	queueSize    = 16
)

var (
	ErrSlowConsumer = errors.New("network: send queue full")
	ErrConnClosed   = errors.New("network: connection closed")
)

// Conn is one websocket peer. Writes go through a single pump goroutine; Send
// never blocks.
type Conn struct {
	id    string
	ws    *websocket.Conn
	codec protocol.Codec
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	log   *slog.Logger
}

func newConn(id string, ws *websocket.Conn, codec protocol.Codec, log *slog.Logger) *Conn {
	return &Conn{
		id:    id,
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, queueSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

func (c *Conn) Codec() protocol.Codec { return c.codec }

func (c *Conn) Send(b []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrSlowConsumer
	}
}

// Close stops the write pump, which closes the socket and so ends the read loop.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	msgType := websocket.TextMessage
	if c.codec.Binary() {
		msgType = websocket.BinaryMessage
	}
	for {
		select {
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(msgType, msg); err != nil {
				c.log.Warn("write failed", "participant", c.id, "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readPump turns inbound frames into room commands until the peer goes away,
// then submits Leave.
func (c *Conn) readPump(r *room.Room) {
	defer func() {
		c.Close()
		if err := r.Submit(room.Leave{ID: c.id}); err != nil {
			c.log.Debug("leave not delivered", "participant", c.id, "error", err)
		}
	}()

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read failed", "participant", c.id, "error", err)
			}
			return
		}
		cmd, err := decodeCommand(c.id, c.codec, msg)
		if err != nil {
			c.log.Debug("frame ignored", "participant", c.id, "error", err)
			continue
		}
		if cmd == nil {
			continue
		}
		if err := r.Submit(cmd); err != nil {
			return
		}
	}
}

// decodeCommand maps one client frame to a room command. Unknown kinds yield nil.
func decodeCommand(id string, codec protocol.Codec, frame []byte) (any, error) {
	env, err := codec.Decode(frame)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case protocol.MsgJoin:
		name, err := protocol.DecodePayload[string](env)
		if err != nil {
			name = ""
		}
		return room.Join{ID: id, Name: name}, nil
	case protocol.MsgPaddleMove:
		v, err := protocol.DecodePayload[float64](env)
		if err != nil {
			return nil, err
		}
		return room.Move{ID: id, Direction: protocol.Direction(v)}, nil
	case protocol.MsgStart:
		return room.Start{ID: id}, nil
	case protocol.MsgReturnToLobby:
		return room.ReturnToLobby{ID: id}, nil
	}
	return nil, nil
}
