// Package client is the joining side: a websocket dialer and the local,
// non-authoritative view it keeps from host frames.
package client

import (
	"fmt"
	"html"
	"sort"
	"sync"

	"quadpong/game"
	"quadpong/protocol"
)

// View mirrors the last snapshot received. It never simulates.
type View struct {
	mu       sync.RWMutex
	state    protocol.State
	position string
	isHost   bool
	full     bool
}

func NewView() *View {
	return &View{state: protocol.State{Status: "lobby"}}
}

type Player struct {
	ID       string
	Position string
	Name     string
	Color    string
	Score    int
	Host     bool
}

// Apply folds one host frame into the view. Unknown kinds are ignored.
func (v *View) Apply(env protocol.Envelope) error {
	switch env.Type {
	case protocol.MsgState:
		st, err := protocol.DecodePayload[protocol.State](env)
		if err != nil {
			return fmt.Errorf("client: decode state: %w", err)
		}
		v.mu.Lock()
		v.state = st
		v.mu.Unlock()
	case protocol.MsgAssigned:
		a, err := protocol.DecodePayload[protocol.Assigned](env)
		if err != nil {
			return fmt.Errorf("client: decode assignment: %w", err)
		}
		v.mu.Lock()
		v.position, v.isHost = a.Position, a.IsHost
		v.mu.Unlock()
	case protocol.MsgFull:
		v.mu.Lock()
		v.full = true
		v.mu.Unlock()
	}
	return nil
}

// HostLost marks the match over if the host went away mid-play.
func (v *View) HostLost() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Status == "playing" {
		v.state.Status = "ended"
	}
}

func (v *View) State() protocol.State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *View) Status() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Status
}

// Position is empty until an assignment arrives.
func (v *View) Position() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.position
}

func (v *View) IsHost() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isHost
}

// Full reports whether the host turned this client away.
func (v *View) Full() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.full
}

// Players lists the roster in seating order, names escaped for display.
func (v *View) Players() []Player {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Player, 0, len(v.state.Players))
	for id, p := range v.state.Players {
		out = append(out, Player{
			ID:       id,
			Position: p.Position,
			Name:     html.EscapeString(p.Name),
			Color:    p.Color,
			Score:    p.Score,
			Host:     id == v.state.HostID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return seat(out[i].Position) < seat(out[j].Position)
	})
	return out
}

func seat(position string) int {
	if s, ok := game.ParseSide(position); ok {
		return int(s)
	}
	return len(game.Sides)
}
