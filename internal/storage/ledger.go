package storage

import (
	"context"
	"fmt"

	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
)

// LedgerEntry is a player's accumulated loyalty points in one category.
type LedgerEntry struct {
	Player   string
	Category engine.Category
	Points   int64
	Credits  int
}

// Credit implements loyalty.Sink. All awards of one credit are applied in
// a single transaction.
func (s *Store) Credit(ctx context.Context, c loyalty.Credit) error {
	if len(c.Awards) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range c.Awards {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledger (player, category, points, credits, updated_at)
			 VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
			 ON CONFLICT(player, category) DO UPDATE SET
			   points = points + excluded.points,
			   credits = credits + 1,
			   updated_at = CURRENT_TIMESTAMP`,
			c.Player, a.Category.String(), a.Points,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot credit %s: %w", a.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit ledger credit: %w", err)
	}
	return nil
}

// Ledger returns balances ordered by player then category name. An empty
// player returns every player's balances.
func (s *Store) Ledger(ctx context.Context, player string) ([]LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, category, points, credits
		 FROM ledger
		 WHERE ? = '' OR player = ?
		 ORDER BY player ASC, category ASC`,
		player, player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ledger: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		var name string
		if err := rows.Scan(&e.Player, &name, &e.Points, &e.Credits); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		cat, ok := engine.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("storage: unknown category %q in ledger", name)
		}
		e.Category = cat
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Balance returns the player's points per category.
func (s *Store) Balance(ctx context.Context, player string) (engine.Tally, error) {
	var out engine.Tally
	entries, err := s.Ledger(ctx, player)
	if err != nil {
		return out, err
	}
	for _, e := range entries {
		out[e.Category] += int(e.Points)
	}
	return out, nil
}

var _ loyalty.Sink = (*Store)(nil)
