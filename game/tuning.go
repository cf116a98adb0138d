package game

import "math"

// Arena constants are shared by every implementation of the protocol and must not
// drift between host and joiners.
const (
	ArenaWidth  = 800.0
	ArenaHeight = 600.0

	PaddleLength    = 100.0 // along the free axis
	PaddleThickness = 15.0
	PaddleInset     = 20.0 // distance from the arena edge to the paddle's fixed coordinate
	PaddleStep      = 10.0 // per tick

	BallRadius = 8.0
	BaseSpeed  = 5.0  // per tick
	MaxSpeed   = 10.0 // per tick
	SpeedRamp  = 1.05

	MaxBounceAngle = math.Pi / 3 // measured from the paddle's outward normal
	ResetVariance  = math.Pi / 6 // either side of the aim direction

	WinScore = 10
	TickHz   = 60
)
