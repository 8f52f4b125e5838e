// Package factory builds the initial match aggregate from settings and rosters.
package factory

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crease/internal/domain/model"
)

// Index from which unassigned squad members are treated as bowling options.
const bowlingOptionsFrom = 7

// Factory creates matches. Random choices come from an injected source so a
// seeded factory always produces the same squads.
type Factory struct {
	mu    sync.Mutex
	rng   *rand.Rand
	newID func() string
}

// Option applies a configuration option to the Factory.
type Option func(*Factory)

// WithSeed seeds the factory's random source.
func WithSeed(seed int64) Option {
	return func(f *Factory) {
		f.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // squad assignment is not security sensitive
	}
}

// WithRand sets the factory's random source.
func WithRand(rng *rand.Rand) Option {
	return func(f *Factory) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// WithIDGenerator sets the match id generator.
func WithIDGenerator(gen func() string) Option {
	return func(f *Factory) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// New creates a Factory. Without WithSeed or WithRand it seeds from the clock.
func New(opts ...Option) *Factory {
	f := &Factory{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // squad assignment is not security sensitive
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a match. Saved rosters keyed by team name take precedence;
// teams without one draw their squad from the shuffled pool. A player is never
// drawn into both squads.
func (f *Factory) Create(settings model.Settings, pool []model.Player, saved map[string][]model.Player) (model.Match, error) {
	if err := settings.Validate(); err != nil {
		return model.Match{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	used := make(map[string]bool)
	for _, name := range settings.TeamNames {
		for _, p := range saved[name] {
			used[p.ID] = true
		}
	}

	shuffled := make([]model.Player, 0, len(pool))
	for _, p := range pool {
		if !used[p.ID] {
			shuffled = append(shuffled, p)
		}
	}
	f.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var teams [2]model.Team
	for i, name := range settings.TeamNames {
		var players []model.Player
		if roster, ok := saved[name]; ok && len(roster) > 0 {
			players = squad(roster)
		} else {
			n := min(model.SquadSize, len(shuffled))
			players = squad(shuffled[:n])
			shuffled = shuffled[n:]
			f.assignRoles(players)
		}
		teams[i] = model.Team{ID: strconv.Itoa(i), Name: name, Players: players}
	}

	return assemble(f.newID(), settings, teams)
}

// assignRoles fills in roles and bowling styles for players that have none.
func (f *Factory) assignRoles(players []model.Player) {
	for i := range players {
		p := &players[i]
		if p.Role != "" {
			continue
		}
		switch {
		case i == 0:
			p.Role = model.RoleWicketKeeper
		case i >= bowlingOptionsFrom:
			if f.rng.Intn(2) == 0 {
				p.Role = model.RoleBowler
			} else {
				p.Role = model.RoleAllRounder
			}
			if p.BowlingStyle == "" {
				p.BowlingStyle = model.BowlingStyles[f.rng.Intn(len(model.BowlingStyles))]
			}
		default:
			p.Role = model.RoleBatsman
		}
	}
}

// Rebuild derives the initial aggregate of an existing match: same id, same
// squads and squad flags, all figures cleared and no deliveries bowled.
func Rebuild(m model.Match) (model.Match, error) {
	teams := [2]model.Team{m.Teams[0].Fresh(), m.Teams[1].Fresh()}
	return assemble(m.ID, m.Settings(), teams)
}

// squad copies up to SquadSize players with figures cleared and flags reset.
func squad(roster []model.Player) []model.Player {
	n := min(model.SquadSize, len(roster))
	players := make([]model.Player, n)
	for i := 0; i < n; i++ {
		p := roster[i].Fresh()
		if p.Rating <= 0 {
			p.Rating = model.DefaultRating
		}
		p.IsSubstitute = i >= model.PlayingXISize
		p.IsImpactPlayer = false
		players[i] = p
	}
	return players
}

func assemble(id string, settings model.Settings, teams [2]model.Team) (model.Match, error) {
	m := model.Match{
		ID:              id,
		Teams:           teams,
		OversPerInnings: settings.OversPerInnings,
		Toss:            settings.Toss,
		Format:          settings.Format,
		Status:          model.StatusInProgress,
	}
	for _, t := range teams {
		if n := len(t.PlayingXI()); n < 2 {
			return model.Match{}, fmt.Errorf("%w: %s has %d playing-XI members", model.ErrRoster, t.Name, n)
		}
	}
	batting := BattingFirst(settings)
	first, err := m.StartInnings(batting, 1-batting)
	if err != nil {
		return model.Match{}, err
	}
	m.Innings = []model.Innings{first}
	return m, nil
}

// BattingFirst returns the index of the side that bats first.
func BattingFirst(settings model.Settings) int {
	winner := 1
	if settings.Toss.Winner == settings.TeamNames[0] {
		winner = 0
	}
	if settings.Toss.Decision == model.DecisionBat {
		return winner
	}
	return 1 - winner
}
