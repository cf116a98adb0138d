// Package session keeps the roster of a match: who is seated where, in which
// color, with what score, and who currently hosts.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"quadpong/game"
)

const Capacity = 4

// Palette colors are handed out in order, first free wins.
var Palette = [Capacity]string{"#FF6B6B", "#4ECDC4", "#FFE66D", "#95E1D3"}

var (
	ErrFull          = errors.New("session: roster is full")
	ErrAlreadyJoined = errors.New("session: participant already joined")
)

// NewID returns an opaque identity for a new connection.
func NewID() string {
	return uuid.NewString()
}

type Participant struct {
	ID    string
	Name  string
	Side  game.Side
	Color string
	Score int

	seq uint64
}

// Registry is not safe for concurrent use; the match loop owns it.
type Registry struct {
	participants map[string]*Participant
	nextSeq      uint64
	hostID       string
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[string]*Participant)}
}

// Join seats id on the first free side with the first free color. The first
// participant of an empty roster becomes host.
func (r *Registry) Join(id, name string) (Participant, error) {
	if _, ok := r.participants[id]; ok {
		return Participant{}, ErrAlreadyJoined
	}
	if len(r.participants) >= Capacity {
		return Participant{}, ErrFull
	}

	occupied := r.Occupied()
	side, found := game.Side(0), false
	for _, s := range game.Sides {
		if !occupied.Has(s) {
			side, found = s, true
			break
		}
	}
	if !found {
		return Participant{}, ErrFull
	}

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Player %d", len(r.participants)+1)
	}

	p := &Participant{
		ID:    id,
		Name:  name,
		Side:  side,
		Color: r.freeColor(),
		seq:   r.nextSeq,
	}
	r.nextSeq++
	r.participants[id] = p
	if r.hostID == "" {
		r.hostID = id
	}
	return *p, nil
}

func (r *Registry) freeColor() string {
	used := make(map[string]bool, len(r.participants))
	for _, p := range r.participants {
		used[p.Color] = true
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[0]
}

// Remove drops id without reshuffling anyone else. When the host leaves, the
// longest-seated remaining participant takes over.
func (r *Registry) Remove(id string) (Participant, bool) {
	p, ok := r.participants[id]
	if !ok {
		return Participant{}, false
	}
	delete(r.participants, id)

	if r.hostID == id {
		r.hostID = ""
		var next *Participant
		for _, q := range r.participants {
			if next == nil || q.seq < next.seq {
				next = q
			}
		}
		if next != nil {
			r.hostID = next.ID
		}
	}
	return *p, true
}

func (r *Registry) Get(id string) (Participant, bool) {
	p, ok := r.participants[id]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

func (r *Registry) Occupied() game.SideSet {
	var ss game.SideSet
	for _, p := range r.participants {
		ss = ss.With(p.Side)
	}
	return ss
}

func (r *Registry) Len() int { return len(r.participants) }

func (r *Registry) Host() string { return r.hostID }

func (r *Registry) IsHost(id string) bool {
	return id != "" && id == r.hostID
}

// AddPoint credits whoever sits on s. It reports false for an empty side.
func (r *Registry) AddPoint(s game.Side) bool {
	for _, p := range r.participants {
		if p.Side == s {
			p.Score++
			return true
		}
	}
	return false
}

func (r *Registry) ResetScores() {
	for _, p := range r.participants {
		p.Score = 0
	}
}

func (r *Registry) MaxScore() int {
	best := 0
	for _, p := range r.participants {
		if p.Score > best {
			best = p.Score
		}
	}
	return best
}

// List returns copies of all participants ordered by side.
func (r *Registry) List() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Side < out[j].Side })
	return out
}
