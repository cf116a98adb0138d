// Package results reports finished matches to whoever listens outside the
// process. Publishing happens off the room loop.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"quadpong/game"
	"quadpong/metrics"
	"quadpong/protocol"
)

type Standing struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
}

// Result is the final standings of one match, best first.
type Result struct {
	Winner    string     `json:"winner"`
	Standings []Standing `json:"standings"`
	Ticks     int        `json:"ticks"`
	EndedAt   time.Time  `json:"endedAt"`
}

// FromState builds a Result from the last snapshot of a match. Ties go to the
// side that comes first in seating order.
func FromState(st protocol.State, at time.Time) Result {
	r := Result{Ticks: st.Tick, EndedAt: at.UTC()}
	for id, p := range st.Players {
		r.Standings = append(r.Standings, Standing{
			ID:       id,
			Name:     p.Name,
			Position: p.Position,
			Color:    p.Color,
			Score:    p.Score,
		})
	}
	sort.Slice(r.Standings, func(i, j int) bool {
		a, b := r.Standings[i], r.Standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return seatOrder(a.Position) < seatOrder(b.Position)
	})
	if len(r.Standings) > 0 {
		r.Winner = r.Standings[0].ID
	}
	return r
}

func seatOrder(position string) int {
	s, ok := game.ParseSide(position)
	if !ok {
		return len(game.Sides)
	}
	return int(s)
}

type Publisher interface {
	Publish(ctx context.Context, r Result) error
}

// Discard drops every result. It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Result) error { return nil }

// RedisPublisher sends each result as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(url, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("results: parse redis url: %w", err)
	}
	if channel == "" {
		return nil, fmt.Errorf("results: empty channel name")
	}
	return &RedisPublisher{client: redis.NewClient(opts), channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, r Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("results: encode: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		metrics.ResultsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("results: publish to %s: %w", p.channel, err)
	}
	metrics.ResultsPublished.WithLabelValues("ok").Inc()
	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
