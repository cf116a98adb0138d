package protocol

// Inbound payloads follow the browser client: joinGame carries the display name
// as a bare string, paddleMove a bare number.

// Direction maps a paddleMove payload onto -1, 0 or +1. Anything else stops the
// paddle.
func Direction(v float64) int {
	switch v {
	case -1:
		return -1
	case 1:
		return 1
	}
	return 0
}
