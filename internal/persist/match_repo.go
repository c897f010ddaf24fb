package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchRow is the persisted outcome of one match.
type MatchRow struct {
	ID          uuid.UUID
	Seed        int64
	Ticks       uint64
	SimSeconds  float64
	Winner      int // 0 = no single surviving team
	ShotsFired  map[string]int
	Detonations int
	SplashHits  int
	Collisions  int
	Teams       []TeamRow
	FinishedAt  time.Time
}

// TeamRow is the per-team line of a match.
type TeamRow struct {
	Team      int
	Survivors int
	ShipsLost int
	Kills     int
}

// MatchRepo stores match outcomes.
type MatchRepo struct {
	db *DB
}

func NewMatchRepo(db *DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Save writes the match and its team lines in one transaction.
func (r *MatchRepo) Save(ctx context.Context, m MatchRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("match begin: %w", err)
	}
	defer tx.Rollback(ctx)

	shots := m.ShotsFired
	if shots == nil {
		shots = map[string]int{}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO matches (match_id, seed, ticks, sim_seconds, winner, shots_fired,
		                      detonations, splash_hits, collisions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Seed, int64(m.Ticks), m.SimSeconds, m.Winner, shots,
		m.Detonations, m.SplashHits, m.Collisions,
	); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	for _, t := range m.Teams {
		if _, err := tx.Exec(ctx,
			`INSERT INTO match_teams (match_id, team, survivors, ships_lost, kills)
			 VALUES ($1, $2, $3, $4, $5)`,
			m.ID, t.Team, t.Survivors, t.ShipsLost, t.Kills,
		); err != nil {
			return fmt.Errorf("insert match %s team %d: %w", m.ID, t.Team, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("match commit: %w", err)
	}
	r.db.log.Debug("match saved", zap.Stringer("match", m.ID), zap.Int("teams", len(m.Teams)))
	return nil
}

// Recent returns the latest matches, newest first, without team lines.
func (r *MatchRepo) Recent(ctx context.Context, limit int) ([]MatchRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT match_id, seed, ticks, sim_seconds, winner, shots_fired,
		        detonations, splash_hits, collisions, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var (
			m     MatchRow
			ticks int64
		)
		if err := rows.Scan(&m.ID, &m.Seed, &ticks, &m.SimSeconds, &m.Winner, &m.ShotsFired,
			&m.Detonations, &m.SplashHits, &m.Collisions, &m.FinishedAt); err != nil {
			return nil, err
		}
		m.Ticks = uint64(ticks)
		out = append(out, m)
	}
	return out, rows.Err()
}
