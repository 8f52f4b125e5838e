// Package repository persists match snapshots and team rosters.
//
// A snapshot is the whole match aggregate encoded as JSON. Stores never
// interpret it beyond the id they key it by.
package repository

import (
	"context"

	"github.com/okian/crease/internal/domain/model"
)

// Store provides read/write access to persisted matches and rosters.
type Store interface {
	// SaveMatch writes m under m.ID, replacing any earlier snapshot.
	SaveMatch(ctx context.Context, m model.Match) error

	// GetMatch returns the snapshot for id, or ErrNotFound.
	GetMatch(ctx context.Context, id string) (model.Match, error)

	// DeleteMatch removes the snapshot for id. Unknown ids return ErrNotFound.
	DeleteMatch(ctx context.Context, id string) error

	// ListMatches returns the stored match ids in ascending order.
	ListMatches(ctx context.Context) ([]string, error)

	// SaveRoster writes the squad of the named team.
	SaveRoster(ctx context.Context, team string, players []model.Player) error

	// GetRoster returns the saved squad of the named team, or ErrNotFound.
	GetRoster(ctx context.Context, team string) ([]model.Player, error)

	Close() error
}

// Rosters loads the saved squads of the named teams, skipping teams with
// none saved.
func Rosters(ctx context.Context, s Store, teams ...string) (map[string][]model.Player, error) {
	out := make(map[string][]model.Player, len(teams))
	for _, team := range teams {
		players, err := s.GetRoster(ctx, team)
		switch {
		case err == nil:
			out[team] = players
		case isNotFound(err):
		default:
			return nil, err
		}
	}
	return out, nil
}
