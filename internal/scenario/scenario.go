// Package scenario loads scripted matches from YAML and plays them through
// the match service.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/crease/internal/domain/model"
)

// Scenario is a scripted match: settings, the player pool squads are drawn
// from, and the deliveries of each innings. Innings after the second belong
// to the super over.
type Scenario struct {
	Name     string         `yaml:"name"`
	Settings model.Settings `yaml:"settings"`
	Pool     []PoolPlayer   `yaml:"pool" validate:"dive"`
	Innings  []Innings      `yaml:"innings" validate:"required,min=1,max=4,dive"`
}

// PoolPlayer is a player available for squad selection.
type PoolPlayer struct {
	ID           string  `yaml:"id" validate:"required"`
	Name         string  `yaml:"name" validate:"required"`
	Rating       float64 `yaml:"rating" validate:"gte=0,lte=100"`
	Role         string  `yaml:"role"`
	BowlingStyle string  `yaml:"bowling_style"`
}

// Innings lists the overs of one innings.
type Innings struct {
	Overs []Over `yaml:"overs" validate:"required,min=1,dive"`
}

// Over is one bowler's set of deliveries. An empty Bowler keeps the current
// bowler, or picks one from those available when a new over starts.
type Over struct {
	Bowler string   `yaml:"bowler"`
	Balls  []string `yaml:"balls" validate:"required,min=1"`
}

var validate = validator.New()

// Load reads and checks the scenario at path.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a scenario and checks its shape and every delivery token.
func Parse(b []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario without playing it.
func (sc *Scenario) Validate() error {
	if err := validate.Struct(sc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	seen := make(map[string]bool, len(sc.Pool))
	for _, p := range sc.Pool {
		if seen[p.ID] {
			return fmt.Errorf("%w: player %s listed twice", ErrInvalidScenario, p.ID)
		}
		seen[p.ID] = true
		if !model.Role(p.Role).Valid() && p.Role != "" {
			return fmt.Errorf("%w: player %s has unknown role %q", ErrInvalidScenario, p.ID, p.Role)
		}
		if !model.BowlingStyle(p.BowlingStyle).Valid() {
			return fmt.Errorf("%w: player %s has unknown bowling style %q", ErrInvalidScenario, p.ID, p.BowlingStyle)
		}
	}
	for i, in := range sc.Innings {
		for j, o := range in.Overs {
			for k, tok := range o.Balls {
				if _, err := ParseToken(tok); err != nil {
					return fmt.Errorf("%w: innings %d over %d ball %d: %v", ErrInvalidScenario, i+1, j+1, k+1, err)
				}
			}
		}
	}
	return nil
}

// Players converts the pool for squad selection.
func (sc *Scenario) Players() []model.Player {
	players := make([]model.Player, len(sc.Pool))
	for i, p := range sc.Pool {
		players[i] = model.Player{
			ID:           p.ID,
			Name:         p.Name,
			Rating:       p.Rating,
			Role:         model.Role(p.Role),
			BowlingStyle: model.BowlingStyle(p.BowlingStyle),
		}
	}
	return players
}
