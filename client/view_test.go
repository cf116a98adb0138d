package client

import (
	"testing"

	"quadpong/protocol"
)

func envelope(t *testing.T, kind string, payload any) protocol.Envelope {
	t.Helper()
	b, err := protocol.Encode(kind, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", kind, err)
	}
	env, err := protocol.DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode %s: %v", kind, err)
	}
	return env
}

func TestViewAppliesState(t *testing.T) {
	v := NewView()
	if v.Status() != "lobby" {
		t.Fatalf("initial status: got %q, want lobby", v.Status())
	}
	st := protocol.State{
		Tick:   7,
		Status: "playing",
		HostID: "a",
		Players: map[string]protocol.PlayerView{
			"b": {Position: "left", Name: "Bob", Score: 2},
			"a": {Position: "top", Name: "Alice", Score: 1},
		},
	}
	if err := v.Apply(envelope(t, protocol.MsgState, st)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := v.State(); got.Tick != 7 || got.Status != "playing" {
		t.Fatalf("got tick=%d status=%q", got.Tick, got.Status)
	}

	players := v.Players()
	if len(players) != 2 || players[0].ID != "a" || players[1].ID != "b" {
		t.Fatalf("got players %+v, want a then b", players)
	}
	if !players[0].Host || players[1].Host {
		t.Fatalf("host flag wrong: %+v", players)
	}
}

func TestViewEscapesNames(t *testing.T) {
	v := NewView()
	st := protocol.State{Status: "lobby", Players: map[string]protocol.PlayerView{
		"x": {Position: "top", Name: `<img src=x onerror="alert(1)">`},
	}}
	if err := v.Apply(envelope(t, protocol.MsgState, st)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got := v.Players()[0].Name
	want := "&lt;img src=x onerror=&#34;alert(1)&#34;&gt;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if raw := v.State().Players["x"].Name; raw[0] != '<' {
		t.Fatalf("state should keep the raw name, got %q", raw)
	}
}

func TestViewAssignmentAndFull(t *testing.T) {
	v := NewView()
	if v.Position() != "" || v.IsHost() {
		t.Fatalf("unexpected assignment before any frame")
	}
	if err := v.Apply(envelope(t, protocol.MsgAssigned, protocol.Assigned{Position: "right", IsHost: true})); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.Position() != "right" || !v.IsHost() {
		t.Fatalf("got position=%q host=%v", v.Position(), v.IsHost())
	}

	if err := v.Apply(envelope(t, protocol.MsgFull, nil)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !v.Full() {
		t.Fatalf("expected full after gameFull")
	}
}

func TestViewHostLost(t *testing.T) {
	v := NewView()
	v.HostLost()
	if v.Status() != "lobby" {
		t.Fatalf("lobby should survive host loss, got %q", v.Status())
	}

	if err := v.Apply(envelope(t, protocol.MsgState, protocol.State{Status: "playing"})); err != nil {
		t.Fatalf("apply: %v", err)
	}
	v.HostLost()
	if v.Status() != "ended" {
		t.Fatalf("got %q, want ended", v.Status())
	}
}

func TestViewRejectsBadState(t *testing.T) {
	v := NewView()
	env := protocol.Envelope{Type: protocol.MsgState, Data: []byte(`"nope"`)}
	if err := v.Apply(env); err == nil {
		t.Fatalf("expected error for malformed state")
	}
	if err := v.Apply(protocol.Envelope{Type: "somethingElse"}); err != nil {
		t.Fatalf("unknown kinds should be ignored, got %v", err)
	}
}
