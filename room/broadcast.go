package room

import (
	"log/slog"

	"quadpong/metrics"
	"quadpong/protocol"
)

// Conn is the outbound half of a transport. Send may block; the room never calls
// it from the loop goroutine.
type Conn interface {
	Codec() protocol.Codec
	Send([]byte) error
	Close() error
}

// ConnFunc adapts an in-process receiver, such as the host's own client, to Conn.
type ConnFunc func([]byte) error

func (f ConnFunc) Codec() protocol.Codec { return protocol.JSON }
func (f ConnFunc) Send(b []byte) error   { return f(b) }
func (f ConnFunc) Close() error          { return nil }

// outbox decouples the loop from one connection. Frames that do not fit in the
// queue are dropped.
type outbox struct {
	id    string
	conn  Conn
	queue chan []byte
	log   *slog.Logger
}

func newOutbox(id string, c Conn, size int, log *slog.Logger) *outbox {
	o := &outbox{id: id, conn: c, queue: make(chan []byte, size), log: log}
	go o.run()
	return o
}

func (o *outbox) run() {
	for frame := range o.queue {
		if err := o.conn.Send(frame); err != nil {
			o.log.Debug("send failed", "participant", o.id, "error", err)
		}
	}
	if err := o.conn.Close(); err != nil {
		o.log.Debug("close failed", "participant", o.id, "error", err)
	}
}

func (o *outbox) push(frame []byte) bool {
	select {
	case o.queue <- frame:
		return true
	default:
		return false
	}
}

// close must only be called by the goroutine that pushes.
func (o *outbox) close() {
	close(o.queue)
}

// Broadcaster fans snapshots out to every attached connection and sends direct
// messages to one. It implements match.Sink and is owned by the room loop.
type Broadcaster struct {
	outboxes map[string]*outbox
	bufSize  int
	viewer   func(protocol.State)
	log      *slog.Logger
}

func newBroadcaster(bufSize int, viewer func(protocol.State), log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		outboxes: make(map[string]*outbox),
		bufSize:  bufSize,
		viewer:   viewer,
		log:      log,
	}
}

func (b *Broadcaster) add(id string, c Conn) {
	if old, ok := b.outboxes[id]; ok {
		old.close()
	}
	b.outboxes[id] = newOutbox(id, c, b.bufSize, b.log)
}

func (b *Broadcaster) remove(id string) bool {
	o, ok := b.outboxes[id]
	if !ok {
		return false
	}
	delete(b.outboxes, id)
	o.close()
	return true
}

func (b *Broadcaster) closeAll() {
	for id := range b.outboxes {
		b.remove(id)
	}
}

func (b *Broadcaster) len() int { return len(b.outboxes) }

// Broadcast encodes st once per codec in use and queues it everywhere.
func (b *Broadcaster) Broadcast(st protocol.State) {
	var (
		frames [2][]byte
		failed [2]bool
	)
	for id, o := range b.outboxes {
		codec := o.conn.Codec()
		if int(codec) >= len(frames) || failed[codec] {
			continue
		}
		if frames[codec] == nil {
			f, err := codec.Encode(protocol.MsgState, st)
			if err != nil {
				b.log.Error("encode state", "codec", codec.String(), "error", err)
				failed[codec] = true
				continue
			}
			frames[codec] = f
		}
		b.deliver(id, o, protocol.MsgState, frames[codec])
	}
	if b.viewer != nil {
		b.viewer(st)
	}
}

func (b *Broadcaster) Assigned(id string, a protocol.Assigned) {
	b.sendTo(id, protocol.MsgAssigned, a)
}

func (b *Broadcaster) Rejected(id string) {
	b.sendTo(id, protocol.MsgFull, nil)
}

// sendState gives a single connection the current snapshot.
func (b *Broadcaster) sendState(id string, st protocol.State) {
	b.sendTo(id, protocol.MsgState, st)
}

func (b *Broadcaster) sendTo(id, kind string, payload any) {
	o, ok := b.outboxes[id]
	if !ok {
		return
	}
	frame, err := o.conn.Codec().Encode(kind, payload)
	if err != nil {
		b.log.Error("encode direct message", "kind", kind, "error", err)
		return
	}
	b.deliver(id, o, kind, frame)
}

func (b *Broadcaster) deliver(id string, o *outbox, kind string, frame []byte) {
	if o.push(frame) {
		metrics.Frames.WithLabelValues(kind).Inc()
		return
	}
	metrics.DroppedFrames.Inc()
	b.log.Debug("outbox full, frame dropped", "participant", id, "kind", kind)
}
