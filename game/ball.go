package game

import (
	"math"

	"golang.org/x/exp/rand"
)

// Rand is the randomness Step and ResetBall draw from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ResetBall centers the ball at base speed and aims it at a random occupied side,
// give or take ResetVariance. With nobody seated the direction is arbitrary.
func ResetBall(b *Ball, occupied SideSet, rng Rand) {
	b.X = ArenaWidth / 2
	b.Y = ArenaHeight / 2
	b.Speed = BaseSpeed
	b.Radius = BallRadius

	var angle float64
	sides := occupied.Slice()
	if len(sides) == 0 {
		angle = rng.Float64()*math.Pi/2 - math.Pi/4 + float64(rng.Intn(4))*math.Pi/2
	} else {
		target := sides[rng.Intn(len(sides))]
		angle = target.Heading() + (rng.Float64()*2-1)*ResetVariance
	}

	b.VX = math.Cos(angle) * b.Speed
	b.VY = math.Sin(angle) * b.Speed
}
