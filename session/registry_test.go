package session

import (
	"errors"
	"testing"

	"quadpong/game"
)

func TestJoinAssignsSidesAndColorsInOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i, name := range names {
		p, err := r.Join(name, name)
		if err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
		if p.Side != game.Sides[i] {
			t.Fatalf("%s side = %s, want %s", name, p.Side, game.Sides[i])
		}
		if p.Color != Palette[i] {
			t.Fatalf("%s color = %s, want %s", name, p.Color, Palette[i])
		}
	}
	if got := r.Occupied().Len(); got != 4 {
		t.Fatalf("occupied = %d, want 4", got)
	}
}

func TestJoinRejectsFifthParticipant(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := r.Join(id, id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	before := r.List()

	_, err := r.Join("e", "Eve")
	if !errors.Is(err, ErrFull) {
		t.Fatalf("fifth join err = %v, want ErrFull", err)
	}
	if r.Len() != 4 {
		t.Fatalf("roster size = %d, want 4", r.Len())
	}
	after := r.List()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("roster changed after rejected join: %+v -> %+v", before[i], after[i])
		}
	}
}

func TestJoinTwiceIsRejected(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Join("a", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := r.Join("a", "Alice"); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("err = %v, want ErrAlreadyJoined", err)
	}
}

func TestRemoveLeavesGapThatNextJoinFills(t *testing.T) {
	r := NewRegistry()
	r.Join("a", "A")
	r.Join("b", "B")
	r.Join("c", "C")

	if _, ok := r.Remove("b"); !ok {
		t.Fatalf("remove b: not found")
	}
	c, _ := r.Get("c")
	if c.Side != game.Left || c.Color != Palette[2] {
		t.Fatalf("c reshuffled to %s/%s", c.Side, c.Color)
	}

	d, err := r.Join("d", "D")
	if err != nil {
		t.Fatalf("join d: %v", err)
	}
	if d.Side != game.Bottom || d.Color != Palette[1] {
		t.Fatalf("d got %s/%s, want bottom/%s", d.Side, d.Color, Palette[1])
	}
}

func TestBlankNameGetsDefault(t *testing.T) {
	r := NewRegistry()
	r.Join("a", "Alice")
	p, _ := r.Join("b", "   ")
	if p.Name != "Player 2" {
		t.Fatalf("name = %q, want %q", p.Name, "Player 2")
	}
	q, _ := r.Join("c", "<b>bold</b>")
	if q.Name != "<b>bold</b>" {
		t.Fatalf("name stored as %q, want it unchanged", q.Name)
	}
}

func TestHostIsFirstJoinerAndMovesOnDeparture(t *testing.T) {
	r := NewRegistry()
	r.Join("a", "A")
	r.Join("b", "B")
	r.Join("c", "C")

	if !r.IsHost("a") {
		t.Fatalf("host = %q, want a", r.Host())
	}
	r.Remove("a")
	if r.Host() != "b" {
		t.Fatalf("host after a left = %q, want b", r.Host())
	}
	r.Remove("c")
	if r.Host() != "b" {
		t.Fatalf("host changed on non-host departure: %q", r.Host())
	}
	r.Remove("b")
	if r.Host() != "" {
		t.Fatalf("host = %q, want empty roster to have no host", r.Host())
	}
	if r.IsHost("") {
		t.Fatalf("empty id must never be host")
	}
}

func TestScoring(t *testing.T) {
	r := NewRegistry()
	r.Join("a", "A")
	r.Join("b", "B")

	if !r.AddPoint(game.Top) {
		t.Fatalf("AddPoint(top) = false")
	}
	r.AddPoint(game.Top)
	r.AddPoint(game.Bottom)
	if r.AddPoint(game.Right) {
		t.Fatalf("AddPoint on an empty side credited someone")
	}
	if got := r.MaxScore(); got != 2 {
		t.Fatalf("max score = %d, want 2", got)
	}

	r.ResetScores()
	for _, p := range r.List() {
		if p.Score != 0 {
			t.Fatalf("%s score = %d after reset", p.ID, p.Score)
		}
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q", id)
		}
		seen[id] = true
	}
}
