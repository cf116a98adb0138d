package protocol

// State is the full match snapshot sent after every mutation.
type State struct {
	Tick         int                   `json:"tick"`
	Status       string                `json:"status"`
	Players      map[string]PlayerView `json:"players"`
	HostID       string                `json:"hostId"`
	Ball         BallView              `json:"ball"`
	Paddles      map[string]PaddleView `json:"paddles"`
	CanvasWidth  float64               `json:"canvasWidth"`
	CanvasHeight float64               `json:"canvasHeight"`
	PaddleSpeed  float64               `json:"paddleSpeed"`
}

type PlayerView struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
}

type BallView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Speed  float64 `json:"speed"`
	Radius float64 `json:"radius"`
}

type PaddleView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Moving int     `json:"moving"`
}

// Assigned is sent to a joining participant only.
type Assigned struct {
	Position string `json:"position"`
	IsHost   bool   `json:"isHost"`
}
