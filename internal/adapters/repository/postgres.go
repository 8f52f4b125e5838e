package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/okian/crease/internal/domain/model"
)

const backendPostgres = "postgres"

const schema = `
CREATE TABLE IF NOT EXISTS match_snapshots (
	id         VARCHAR(200) PRIMARY KEY,
	status     VARCHAR(32)  NOT NULL,
	snapshot   JSONB        NOT NULL,
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS team_rosters (
	team       VARCHAR(200) PRIMARY KEY,
	players    JSONB        NOT NULL,
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
`

// PostgresStore keeps snapshots and rosters as JSONB rows, one per match id
// and one per team name. JSON is sent as text: lib/pq would encode a []byte
// as bytea.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens dsn, checks the connection and creates the tables
// when missing.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	o := newOptions(opts)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, o.dialTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(pingCtx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveMatch(ctx context.Context, m model.Match) (err error) {
	defer func(start time.Time) { observe(backendPostgres, "save_match", start, err) }(time.Now())
	if m.ID == "" {
		return ErrInvalidID
	}
	b, err := encodeMatch(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO match_snapshots (id, status, snapshot, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		snapshot = EXCLUDED.snapshot,
		updated_at = EXCLUDED.updated_at
	`, m.ID, string(m.Status), string(b))
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetMatch(ctx context.Context, id string) (m model.Match, err error) {
	defer func(start time.Time) { observe(backendPostgres, "get_match", start, err) }(time.Now())
	var b []byte
	err = s.db.QueryRowContext(ctx, `SELECT snapshot FROM match_snapshots WHERE id = $1`, id).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Match{}, fmt.Errorf("get match %s: %w", id, err)
	}
	return decodeMatch(b)
}

func (s *PostgresStore) DeleteMatch(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(backendPostgres, "delete_match", start, err) }(time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM match_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) ListMatches(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { observe(backendPostgres, "list_matches", start, err) }(time.Now())
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM match_snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	ids = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) SaveRoster(ctx context.Context, team string, players []model.Player) (err error) {
	defer func(start time.Time) { observe(backendPostgres, "save_roster", start, err) }(time.Now())
	if team == "" {
		return ErrInvalidID
	}
	b, err := encodeRoster(players)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO team_rosters (team, players, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (team) DO UPDATE SET
		players = EXCLUDED.players,
		updated_at = EXCLUDED.updated_at
	`, team, string(b))
	if err != nil {
		return fmt.Errorf("save roster %s: %w", team, err)
	}
	return nil
}

func (s *PostgresStore) GetRoster(ctx context.Context, team string) (players []model.Player, err error) {
	defer func(start time.Time) { observe(backendPostgres, "get_roster", start, err) }(time.Now())
	var b []byte
	err = s.db.QueryRowContext(ctx, `SELECT players FROM team_rosters WHERE team = $1`, team).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: roster %s", ErrNotFound, team)
	}
	if err != nil {
		return nil, fmt.Errorf("get roster %s: %w", team, err)
	}
	return decodeRoster(b)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
