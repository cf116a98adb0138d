// Package room runs the one authoritative match loop. Every command and tick is
// applied on the goroutine that calls Run, so the match itself needs no locks.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"quadpong/game"
	"quadpong/logger"
	"quadpong/match"
	"quadpong/metrics"
	"quadpong/protocol"
	"quadpong/results"
)

var ErrClosed = errors.New("room: closed")

const (
	defaultInbox      = 256
	defaultSendBuffer = 64
	publishTimeout    = 5 * time.Second
)

type Room struct {
	Inbox chan any

	machine   *match.Machine
	bc        *Broadcaster
	sched     *scheduler
	publisher results.Publisher
	log       *slog.Logger

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stats    atomic.Pointer[Stats]
	inflight sync.WaitGroup
}

// Stats is a view of the room that is safe to read from any goroutine.
type Stats struct {
	Status       string `json:"status"`
	Participants int    `json:"participants"`
	Connections  int    `json:"connections"`
}

type options struct {
	rng       game.Rand
	interval  time.Duration
	sendBuf   int
	viewer    func(protocol.State)
	publisher results.Publisher
}

type Option func(*options)

// WithRand seeds ball resets, mostly for tests.
func WithRand(r game.Rand) Option { return func(o *options) { o.rng = r } }

func WithTickInterval(d time.Duration) Option { return func(o *options) { o.interval = d } }

// WithSendBuffer sets how many frames may queue per connection before drops.
func WithSendBuffer(n int) Option { return func(o *options) { o.sendBuf = n } }

// WithViewer registers the local view of an in-process host. It is called from
// the loop on every broadcast and must not block.
func WithViewer(fn func(protocol.State)) Option { return func(o *options) { o.viewer = fn } }

func WithResults(p results.Publisher) Option { return func(o *options) { o.publisher = p } }

func New(opts ...Option) *Room {
	o := options{
		interval:  time.Second / time.Duration(protocol.SimTickHz),
		sendBuf:   defaultSendBuffer,
		publisher: results.Discard{},
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = game.NewRand(uint64(time.Now().UnixNano()))
	}
	if o.sendBuf <= 0 {
		o.sendBuf = defaultSendBuffer
	}

	log := logger.With("component", "room")
	r := &Room{
		Inbox:     make(chan any, defaultInbox),
		bc:        newBroadcaster(o.sendBuf, o.viewer, log),
		sched:     newScheduler(o.interval),
		publisher: o.publisher,
		log:       log,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	r.machine = match.New(r.sched, r.bc, o.rng)
	r.machine.OnEnd = r.publishResult
	r.refreshStats()
	return r
}

// Submit queues cmd for the loop. It fails once the room has stopped.
func (r *Room) Submit(cmd any) error {
	select {
	case <-r.quit:
		return ErrClosed
	default:
	}
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.quit:
		return ErrClosed
	}
}

// Stop ends Run. It may be called more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done is closed once Run has returned and every connection is released.
func (r *Room) Done() <-chan struct{} { return r.done }

func (r *Room) Stats() Stats { return *r.stats.Load() }

// Run blocks until ctx is cancelled or Stop is called.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	defer r.inflight.Wait()
	defer r.bc.closeAll()
	defer r.sched.StopTicking()

	r.log.Info("room running", "tick_hz", protocol.SimTickHz)
	for {
		select {
		case <-ctx.Done():
			r.Stop()
			return
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
			r.refreshStats()
		case <-r.sched.C():
			start := time.Now()
			r.machine.Tick()
			metrics.TickDuration.Observe(time.Since(start).Seconds())
			if r.machine.Status() != match.Playing {
				r.refreshStats()
			}
		}
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Attach:
		r.bc.add(c.ID, c.Conn)
		metrics.Connections.Set(float64(r.bc.len()))
		r.bc.sendState(c.ID, r.machine.Snapshot())
	case Join:
		p, err := r.machine.Join(c.ID, c.Name)
		if c.Reply != nil {
			select {
			case c.Reply <- JoinResult{Participant: p, IsHost: r.machine.IsHost(c.ID), Err: err}:
			default:
			}
		}
	case Move:
		r.machine.SetIntent(c.ID, c.Direction)
	case Start:
		if !r.fromHost(c.ID, "start") {
			return
		}
		r.machine.Start()
	case ReturnToLobby:
		if !r.fromHost(c.ID, "return to lobby") {
			return
		}
		r.machine.ReturnToLobby()
	case Leave:
		if r.bc.remove(c.ID) {
			metrics.Connections.Set(float64(r.bc.len()))
		}
		r.machine.RemoveParticipant(c.ID)
	default:
		r.log.Warn("unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (r *Room) fromHost(id, action string) bool {
	if r.machine.IsHost(id) {
		return true
	}
	r.log.Debug("non-host request ignored", "participant", id, "action", action)
	return false
}

func (r *Room) refreshStats() {
	s := Stats{
		Status:       string(r.machine.Status()),
		Participants: r.machine.Participants(),
		Connections:  r.bc.len(),
	}
	if old := r.stats.Load(); old != nil && *old == s {
		return
	}
	r.stats.Store(&s)
}

// publishResult hands the final snapshot to the publisher without holding up
// the loop.
func (r *Room) publishResult(st protocol.State) {
	res := results.FromState(st, time.Now())
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := r.publisher.Publish(ctx, res); err != nil {
			r.log.Warn("publish result failed", "error", err)
			return
		}
		r.log.Info("result published", "winner", res.Winner, "ticks", res.Ticks)
	}()
}

// scheduler is the match.Scheduler backed by a time.Ticker. While stopped its
// channel is nil, so the loop's select never sees a tick.
type scheduler struct {
	every  time.Duration
	ticker *time.Ticker
}

func newScheduler(every time.Duration) *scheduler {
	return &scheduler{every: every}
}

func (s *scheduler) StartTicking() {
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.every)
}

func (s *scheduler) StopTicking() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

func (s *scheduler) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C
}
