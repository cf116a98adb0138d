package game

import "math"

// Outcome reports what happened during one Step.
type Outcome struct {
	Hits   []Side // paddles that returned the ball, in collision order
	Scored bool   // the ball left through an occupied side and was reset
	Out    Side   // valid only when Scored
}

// Step advances w by one tick. Only sides in occupied have working paddles; the
// rest of the arena edge is a wall. Step never touches scores, the caller credits
// Outcome.Hits.
func Step(w *World, occupied SideSet, rng Rand) Outcome {
	MovePaddles(w, occupied)

	w.Ball.X += w.Ball.VX
	w.Ball.Y += w.Ball.VY

	var out Outcome
	for _, s := range Sides {
		if !occupied.Has(s) {
			continue
		}
		if collidePaddle(&w.Ball, &w.Paddles[s]) {
			out.Hits = append(out.Hits, s)
		}
	}

	if side, missed := resolveEdges(&w.Ball, occupied); missed {
		out.Scored = true
		out.Out = side
		ResetBall(&w.Ball, occupied, rng)
	}
	return out
}

// MovePaddles applies each occupied paddle's direction and keeps it inside the
// arena on its free axis.
func MovePaddles(w *World, occupied SideSet) {
	for _, s := range Sides {
		if !occupied.Has(s) {
			continue
		}
		p := &w.Paddles[s]
		if p.Moving == 0 {
			continue
		}
		delta := float64(p.Moving) * PaddleStep
		if s.Horizontal() {
			p.X = clamp(p.X+delta, p.Width/2, ArenaWidth-p.Width/2)
		} else {
			p.Y = clamp(p.Y+delta, p.Height/2, ArenaHeight-p.Height/2)
		}
	}
}

func collidePaddle(b *Ball, p *Paddle) bool {
	var u float64
	switch p.Side {
	case Top:
		if b.VY >= 0 || b.Y-b.Radius > p.Y+p.Height {
			return false
		}
		if b.X < p.X-p.Width/2 || b.X > p.X+p.Width/2 {
			return false
		}
		u = (b.X - p.X) / (p.Width / 2)
	case Bottom:
		if b.VY <= 0 || b.Y+b.Radius < p.Y {
			return false
		}
		if b.X < p.X-p.Width/2 || b.X > p.X+p.Width/2 {
			return false
		}
		u = (b.X - p.X) / (p.Width / 2)
	case Left:
		if b.VX >= 0 || b.X-b.Radius > p.X+p.Width {
			return false
		}
		if b.Y < p.Y-p.Height/2 || b.Y > p.Y+p.Height/2 {
			return false
		}
		u = (b.Y - p.Y) / (p.Height / 2)
	case Right:
		if b.VX <= 0 || b.X+b.Radius < p.X {
			return false
		}
		if b.Y < p.Y-p.Height/2 || b.Y > p.Y+p.Height/2 {
			return false
		}
		u = (b.Y - p.Y) / (p.Height / 2)
	default:
		return false
	}

	angle := u * MaxBounceAngle
	speed := b.magnitude()
	along := math.Sin(angle) * speed
	away := math.Abs(math.Cos(angle) * speed)

	switch p.Side {
	case Top:
		b.VX, b.VY = along, away
		b.Y = p.Y + p.Height + b.Radius
	case Bottom:
		b.VX, b.VY = along, -away
		b.Y = p.Y - b.Radius
	case Left:
		b.VX, b.VY = away, along
		b.X = p.X + p.Width + b.Radius
	case Right:
		b.VX, b.VY = -away, along
		b.X = p.X - b.Radius
	}
	rampSpeed(b)
	return true
}

// rampSpeed speeds the ball up after a paddle hit without crossing MaxSpeed.
func rampSpeed(b *Ball) {
	speed := b.magnitude()
	if speed*SpeedRamp <= MaxSpeed {
		b.VX *= SpeedRamp
		b.VY *= SpeedRamp
		speed *= SpeedRamp
	}
	b.Speed = speed
}

// resolveEdges checks the arena edges in Sides order. An occupied edge is a miss and
// is reported; an empty edge reflects the ball back inside.
func resolveEdges(b *Ball, occupied SideSet) (Side, bool) {
	switch {
	case b.Y-b.Radius <= 0:
		if occupied.Has(Top) {
			return Top, true
		}
		b.VY = math.Abs(b.VY)
		b.Y = b.Radius
	case b.Y+b.Radius >= ArenaHeight:
		if occupied.Has(Bottom) {
			return Bottom, true
		}
		b.VY = -math.Abs(b.VY)
		b.Y = ArenaHeight - b.Radius
	case b.X-b.Radius <= 0:
		if occupied.Has(Left) {
			return Left, true
		}
		b.VX = math.Abs(b.VX)
		b.X = b.Radius
	case b.X+b.Radius >= ArenaWidth:
		if occupied.Has(Right) {
			return Right, true
		}
		b.VX = -math.Abs(b.VX)
		b.X = ArenaWidth - b.Radius
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
