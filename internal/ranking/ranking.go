// Package ranking records finished games and serves leaderboards.
package ranking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/breadcrush/internal/engine"
)

// Result is the outcome of one finished game.
type Result struct {
	SessionID string       `json:"session_id"`
	Player    string       `json:"player"`
	Score     int          `json:"score"`
	Level     int          `json:"level"`
	Crushed   engine.Tally `json:"crushed"`
	At        time.Time    `json:"at"`
}

// Entry is one leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Board stores results and answers top-N queries.
type Board interface {
	Submit(ctx context.Context, r Result) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Multi submits to every board and reads from the first one.
type Multi []Board

// Submit implements Board.
func (m Multi) Submit(ctx context.Context, r Result) error {
	var errs []error
	for _, b := range m {
		if err := b.Submit(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Top implements Board.
func (m Multi) Top(ctx context.Context, limit int) ([]Entry, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return m[0].Top(ctx, limit)
}

// Memory is an in-process board keeping each player's best score.
type Memory struct {
	mu   sync.Mutex
	best map[string]int
}

// NewMemory creates an empty board.
func NewMemory() *Memory {
	return &Memory{best: make(map[string]int)}
}

// Submit implements Board.
func (m *Memory) Submit(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.best[r.Player]; !ok || r.Score > cur {
		m.best[r.Player] = r.Score
	}
	return nil
}

// Top implements Board.
func (m *Memory) Top(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	entries := make([]Entry, 0, len(m.best))
	for p, s := range m.best {
		entries = append(entries, Entry{Player: p, Score: s})
	}
	m.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
