package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vovakirdan/breadcrush/internal/character"
)

// LoadCharacter returns the player's stored progress, or a fresh level 1
// character if none exists.
func (s *Store) LoadCharacter(ctx context.Context, player string) (character.Progress, error) {
	return loadCharacter(ctx, s.db, player)
}

// querier is the part of *sql.DB and *sql.Tx the character queries use.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func loadCharacter(ctx context.Context, q querier, player string) (character.Progress, error) {
	var p character.Progress
	err := q.QueryRowContext(ctx,
		"SELECT level, exp FROM characters WHERE player = ?",
		player,
	).Scan(&p.Level, &p.Exp)
	if isNoRows(err) {
		return character.New(), nil
	}
	if err != nil {
		return character.Progress{}, fmt.Errorf("storage: cannot load character: %w", err)
	}
	return p, nil
}

// SaveCharacter stores the player's progress.
func (s *Store) SaveCharacter(ctx context.Context, player string, p character.Progress) error {
	return saveCharacter(ctx, s.db, player, p)
}

func saveCharacter(ctx context.Context, q querier, player string, p character.Progress) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO characters (player, level, exp, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET
		   level = excluded.level,
		   exp = excluded.exp,
		   updated_at = CURRENT_TIMESTAMP`,
		player, p.Level, p.Exp,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save character: %w", err)
	}
	return nil
}

// GrantExp adds the experience earned by a finished game and stores the
// result in one transaction, so concurrent grants for a player add up.
// It returns the new progress and the number of levels gained.
func (s *Store) GrantExp(ctx context.Context, player string, exp int) (character.Progress, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return character.Progress{}, 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	p, err := loadCharacter(ctx, tx, player)
	if err != nil {
		return character.Progress{}, 0, err
	}
	p, gained := p.AddExp(exp)
	if err := saveCharacter(ctx, tx, player, p); err != nil {
		return character.Progress{}, 0, err
	}
	if err := tx.Commit(); err != nil {
		return character.Progress{}, 0, fmt.Errorf("storage: cannot commit character: %w", err)
	}
	return p, gained, nil
}
