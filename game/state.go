package game

import "math"

// Side is one of the four table positions.
type Side uint8

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// Sides lists every side in allocation and collision order.
var Sides = [4]Side{Top, Bottom, Left, Right}

var sideNames = [4]string{"top", "bottom", "left", "right"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return "unknown"
}

func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return 0, false
}

// Horizontal reports whether the paddle on s slides along x.
func (s Side) Horizontal() bool {
	return s == Top || s == Bottom
}

// Heading is the direction of travel, in radians with y pointing down, that carries
// the ball from the center toward s.
func (s Side) Heading() float64 {
	switch s {
	case Top:
		return -math.Pi / 2
	case Bottom:
		return math.Pi / 2
	case Left:
		return math.Pi
	default:
		return 0
	}
}

// SideSet is a bitset of occupied sides.
type SideSet uint8

func (ss SideSet) Has(s Side) bool { return ss&(1<<s) != 0 }

func (ss SideSet) With(s Side) SideSet { return ss | 1<<s }

func (ss SideSet) Len() int {
	n := 0
	for _, s := range Sides {
		if ss.Has(s) {
			n++
		}
	}
	return n
}

// Slice returns the members in Sides order.
func (ss SideSet) Slice() []Side {
	out := make([]Side, 0, 4)
	for _, s := range Sides {
		if ss.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Paddle X/Y follow the wire layout: the free-axis coordinate is the paddle center,
// the fixed-axis coordinate is its outer edge.
type Paddle struct {
	Side          Side
	X, Y          float64
	Width, Height float64
	Moving        int // -1, 0, +1
}

type Ball struct {
	X, Y   float64
	VX, VY float64
	Speed  float64
	Radius float64
}

func (b *Ball) magnitude() float64 {
	return math.Hypot(b.VX, b.VY)
}

// World is the physical part of a match: the ball and all four paddles, indexed by
// Side. Paddles exist whether or not their side is occupied.
type World struct {
	Ball    Ball
	Paddles [4]Paddle
}

func NewWorld() World {
	w := World{}
	w.CenterPaddles()
	w.ParkBall()
	return w
}

func (w *World) Paddle(s Side) *Paddle {
	return &w.Paddles[s]
}

// CenterPaddles puts every paddle back at its home position and stops it.
func (w *World) CenterPaddles() {
	w.Paddles[Top] = Paddle{Side: Top, X: ArenaWidth / 2, Y: PaddleInset, Width: PaddleLength, Height: PaddleThickness}
	w.Paddles[Bottom] = Paddle{Side: Bottom, X: ArenaWidth / 2, Y: ArenaHeight - PaddleInset, Width: PaddleLength, Height: PaddleThickness}
	w.Paddles[Left] = Paddle{Side: Left, X: PaddleInset, Y: ArenaHeight / 2, Width: PaddleThickness, Height: PaddleLength}
	w.Paddles[Right] = Paddle{Side: Right, X: ArenaWidth - PaddleInset, Y: ArenaHeight / 2, Width: PaddleThickness, Height: PaddleLength}
}

// ParkBall centers the ball at rest.
func (w *World) ParkBall() {
	w.Ball = Ball{X: ArenaWidth / 2, Y: ArenaHeight / 2, Speed: BaseSpeed, Radius: BallRadius}
}
