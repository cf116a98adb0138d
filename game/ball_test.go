package game

import (
	"math"
	"testing"
)

func TestResetBallCentersAtBaseSpeed(t *testing.T) {
	b := Ball{X: 12, Y: 34, VX: 9, VY: 1, Speed: 9}
	ResetBall(&b, only(Left), NewRand(1))

	if b.X != ArenaWidth/2 || b.Y != ArenaHeight/2 {
		t.Fatalf("ball at (%f,%f), want center", b.X, b.Y)
	}
	if b.Speed != BaseSpeed {
		t.Fatalf("speed = %f, want %f", b.Speed, BaseSpeed)
	}
	if got := math.Hypot(b.VX, b.VY); math.Abs(got-BaseSpeed) > 1e-9 {
		t.Fatalf("velocity magnitude = %f, want %f", got, BaseSpeed)
	}
}

func TestResetBallAimsWithinVariance(t *testing.T) {
	rng := NewRand(42)
	for _, side := range Sides {
		for i := 0; i < 200; i++ {
			var b Ball
			ResetBall(&b, only(side), rng)
			heading := math.Atan2(b.VY, b.VX)
			diff := math.Remainder(heading-side.Heading(), 2*math.Pi)
			if math.Abs(diff) > ResetVariance+1e-9 {
				t.Fatalf("%s: heading off by %f rad, limit %f", side, diff, ResetVariance)
			}
		}
	}
}

func TestResetBallPicksAmongOccupiedSides(t *testing.T) {
	rng := NewRand(3)
	seen := map[Side]int{}
	for i := 0; i < 400; i++ {
		var b Ball
		ResetBall(&b, only(Top, Left), rng)
		switch {
		case b.VY < 0 && math.Abs(b.VY) > math.Abs(b.VX):
			seen[Top]++
		case b.VX < 0 && math.Abs(b.VX) > math.Abs(b.VY):
			seen[Left]++
		default:
			t.Fatalf("ball aimed at neither occupied side: v=(%f,%f)", b.VX, b.VY)
		}
	}
	if seen[Top] == 0 || seen[Left] == 0 {
		t.Fatalf("expected both sides targeted, got %v", seen)
	}
}

func TestResetBallWithNobodySeated(t *testing.T) {
	var b Ball
	ResetBall(&b, 0, fixedRand{f: 0.25, n: 2})

	if got := math.Hypot(b.VX, b.VY); math.Abs(got-BaseSpeed) > 1e-9 {
		t.Fatalf("velocity magnitude = %f, want %f", got, BaseSpeed)
	}
}

func TestSideNamesRoundTrip(t *testing.T) {
	for _, s := range Sides {
		got, ok := ParseSide(s.String())
		if !ok || got != s {
			t.Fatalf("ParseSide(%q) = %v,%v", s.String(), got, ok)
		}
	}
	if _, ok := ParseSide("middle"); ok {
		t.Fatalf("ParseSide accepted an unknown side")
	}
}
