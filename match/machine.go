// Package match holds the one authoritative copy of a match and every rule that
// mutates it. A Machine is not safe for concurrent use: the room loop is its only
// caller, which serializes intents and ticks.
package match

import (
	"errors"
	"log/slog"

	"quadpong/game"
	"quadpong/logger"
	"quadpong/metrics"
	"quadpong/protocol"
	"quadpong/session"
)

type Status string

const (
	Lobby   Status = "lobby"
	Playing Status = "playing"
	Ended   Status = "ended"
)

// Scheduler runs Tick at game.TickHz while ticking. Both calls must be idempotent,
// and no Tick may run after StopTicking returns.
type Scheduler interface {
	StartTicking()
	StopTicking()
}

// Sink delivers what the machine emits. Broadcast goes to everyone attached; the
// other two go to one participant only.
type Sink interface {
	Broadcast(protocol.State)
	Assigned(id string, a protocol.Assigned)
	Rejected(id string)
}

type Machine struct {
	status   Status
	registry *session.Registry
	world    game.World
	tick     int

	rng   game.Rand
	sched Scheduler
	sink  Sink
	log   *slog.Logger

	// OnEnd, when set, receives the final snapshot of every finished match.
	OnEnd func(protocol.State)
}

func New(sched Scheduler, sink Sink, rng game.Rand) *Machine {
	m := &Machine{
		rng:   rng,
		sched: sched,
		sink:  sink,
		log:   logger.With("component", "match"),
	}
	m.reset()
	return m
}

// reset rebuilds the match from scratch rather than patching the old one.
func (m *Machine) reset() {
	m.status = Lobby
	m.registry = session.NewRegistry()
	m.world = game.NewWorld()
	m.tick = 0
}

func (m *Machine) Status() Status { return m.status }

func (m *Machine) Participants() int { return m.registry.Len() }

func (m *Machine) IsHost(id string) bool { return m.registry.IsHost(id) }

func (m *Machine) Participant(id string) (session.Participant, bool) {
	return m.registry.Get(id)
}

// Join seats a participant. A full roster is reported to the requester alone; a
// repeated join re-sends the existing assignment.
func (m *Machine) Join(id, name string) (session.Participant, error) {
	p, err := m.registry.Join(id, name)
	switch {
	case errors.Is(err, session.ErrAlreadyJoined):
		p, _ = m.registry.Get(id)
		m.sink.Assigned(id, m.assignment(p))
		return p, err
	case errors.Is(err, session.ErrFull):
		m.log.Info("join rejected, roster full", "participant", id)
		metrics.Rejections.Inc()
		m.sink.Rejected(id)
		return p, err
	case err != nil:
		return p, err
	}

	m.log.Info("participant joined", "participant", id, "name", p.Name, "side", p.Side.String(), "host", m.registry.IsHost(id))
	metrics.Participants.Set(float64(m.registry.Len()))
	m.sink.Broadcast(m.Snapshot())
	m.sink.Assigned(id, m.assignment(p))
	return p, nil
}

func (m *Machine) assignment(p session.Participant) protocol.Assigned {
	return protocol.Assigned{Position: p.Side.String(), IsHost: m.registry.IsHost(p.ID)}
}

// SetIntent steers the participant's paddle. Outside play, or from someone not
// seated, it does nothing. The next tick carries the change to clients.
func (m *Machine) SetIntent(id string, direction int) {
	if m.status != Playing {
		return
	}
	p, ok := m.registry.Get(id)
	if !ok {
		m.log.Debug("intent from unknown participant ignored", "participant", id)
		return
	}
	if direction < -1 || direction > 1 {
		direction = 0
	}
	m.world.Paddle(p.Side).Moving = direction
}

// Start begins play from the lobby. From any other status it is a no-op.
func (m *Machine) Start() bool {
	if m.status != Lobby {
		return false
	}
	m.registry.ResetScores()
	game.ResetBall(&m.world.Ball, m.registry.Occupied(), m.rng)
	m.tick = 0
	m.status = Playing
	m.sched.StartTicking()

	m.log.Info("match started", "participants", m.registry.Len())
	metrics.Matches.WithLabelValues("started").Inc()
	m.sink.Broadcast(m.Snapshot())
	return true
}

// Tick advances play by one step and broadcasts the result.
func (m *Machine) Tick() {
	if m.status != Playing {
		return
	}
	m.tick++
	metrics.Ticks.Inc()

	out := game.Step(&m.world, m.registry.Occupied(), m.rng)
	for _, s := range out.Hits {
		if m.registry.AddPoint(s) {
			metrics.PaddleHits.WithLabelValues(s.String()).Inc()
		}
	}
	if out.Scored {
		metrics.Misses.WithLabelValues(out.Out.String()).Inc()
		if m.registry.MaxScore() >= game.WinScore {
			m.End()
			return
		}
	}
	m.sink.Broadcast(m.Snapshot())
}

// End finishes a match in play and stops the tick loop.
func (m *Machine) End() {
	if m.status != Playing {
		return
	}
	m.status = Ended
	m.sched.StopTicking()

	snap := m.Snapshot()
	m.log.Info("match ended", "ticks", m.tick, "top_score", m.registry.MaxScore())
	metrics.Matches.WithLabelValues("ended").Inc()
	m.sink.Broadcast(snap)
	if m.OnEnd != nil {
		m.OnEnd(snap)
	}
}

// ReturnToLobby clears a finished match but keeps everyone seated.
func (m *Machine) ReturnToLobby() bool {
	if m.status != Ended {
		return false
	}
	m.registry.ResetScores()
	m.world.CenterPaddles()
	m.world.ParkBall()
	m.tick = 0
	m.status = Lobby

	m.log.Info("returned to lobby", "participants", m.registry.Len())
	m.sink.Broadcast(m.Snapshot())
	return true
}

// RemoveParticipant unseats id. Emptying the roster stops play and rebuilds a
// fresh lobby.
func (m *Machine) RemoveParticipant(id string) bool {
	wasHost := m.registry.IsHost(id)
	p, ok := m.registry.Remove(id)
	if !ok {
		return false
	}
	m.world.Paddle(p.Side).Moving = 0
	metrics.Participants.Set(float64(m.registry.Len()))

	if m.registry.Len() == 0 {
		m.sched.StopTicking()
		m.reset()
		m.log.Info("last participant left, match reset", "participant", id)
	} else {
		m.log.Info("participant left", "participant", id, "side", p.Side.String())
		if wasHost {
			m.log.Info("host reassigned", "host", m.registry.Host())
		}
	}
	m.sink.Broadcast(m.Snapshot())
	return true
}

// Snapshot renders the match in wire form.
func (m *Machine) Snapshot() protocol.State {
	st := protocol.State{
		Tick:    m.tick,
		Status:  string(m.status),
		Players: make(map[string]protocol.PlayerView, m.registry.Len()),
		HostID:  m.registry.Host(),
		Ball: protocol.BallView{
			X:      m.world.Ball.X,
			Y:      m.world.Ball.Y,
			VX:     m.world.Ball.VX,
			VY:     m.world.Ball.VY,
			Speed:  m.world.Ball.Speed,
			Radius: m.world.Ball.Radius,
		},
		Paddles:      make(map[string]protocol.PaddleView, len(game.Sides)),
		CanvasWidth:  game.ArenaWidth,
		CanvasHeight: game.ArenaHeight,
		PaddleSpeed:  game.PaddleStep,
	}
	for _, p := range m.registry.List() {
		st.Players[p.ID] = protocol.PlayerView{
			Position: p.Side.String(),
			Name:     p.Name,
			Color:    p.Color,
			Score:    p.Score,
		}
	}
	for _, s := range game.Sides {
		p := m.world.Paddles[s]
		st.Paddles[s.String()] = protocol.PaddleView{
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
			Moving: p.Moving,
		}
	}
	return st
}
