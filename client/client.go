package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"quadpong/logger"
	"quadpong/protocol"
)

const writeWait = 10 * time.Second

// Client is a joiner connected to a host over websocket.
type Client struct {
	ws    *websocket.Conn
	codec protocol.Codec
	view  *View

	wmu     sync.Mutex
	updates chan string
	done    chan struct{}
}

// Dial connects to a host's /ws endpoint. A binary codec is requested through
// the codec query parameter.
func Dial(ctx context.Context, rawURL string, codec protocol.Codec) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse url: %w", err)
	}
	if codec != protocol.JSON {
		q := u.Query()
		q.Set("codec", codec.String())
		u.RawQuery = q.Encode()
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", u.Redacted(), err)
	}
	c := &Client{
		ws:      ws,
		codec:   codec,
		view:    NewView(),
		updates: make(chan string, 256),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) View() *View { return c.view }

// Done is closed when the connection to the host is gone.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Join(name string) error { return c.send(protocol.MsgJoin, name) }

func (c *Client) Move(direction int) error { return c.send(protocol.MsgPaddleMove, direction) }

func (c *Client) Start() error { return c.send(protocol.MsgStart, nil) }

func (c *Client) ReturnToLobby() error { return c.send(protocol.MsgReturnToLobby, nil) }

func (c *Client) Close() error {
	c.wmu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.wmu.Unlock()
	return c.ws.Close()
}

// WaitFor blocks until cond holds for the view, checking after every frame.
func (c *Client) WaitFor(ctx context.Context, cond func(*View) bool) error {
	for {
		if cond(c.view) {
			return nil
		}
		select {
		case <-c.updates:
		case <-c.done:
			if cond(c.view) {
				return nil
			}
			return fmt.Errorf("client: connection closed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) send(kind string, payload any) error {
	b, err := c.codec.Encode(kind, payload)
	if err != nil {
		return err
	}
	msgType := websocket.TextMessage
	if c.codec.Binary() {
		msgType = websocket.BinaryMessage
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(msgType, b)
}

func (c *Client) readLoop() {
	log := logger.With("component", "client")
	defer func() {
		c.view.HostLost()
		close(c.done)
	}()
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			log.Debug("host connection ended", "error", err)
			return
		}
		env, err := c.codec.Decode(msg)
		if err != nil {
			log.Debug("undecodable frame", "error", err)
			continue
		}
		if err := c.view.Apply(env); err != nil {
			log.Debug("frame not applied", "type", env.Type, "error", err)
			continue
		}
		select {
		case c.updates <- env.Type:
		default:
		}
	}
}
