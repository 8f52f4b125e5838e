package model

import "fmt"

// Super over limits.
const (
	SuperOverOvers   = 1
	SuperOverWickets = 2
)

// Format is the competition format of a match.
type Format string

// Match formats.
const (
	FormatT20        Format = "T20"
	FormatFiftyOvers Format = "50-overs"
	FormatTenOvers   Format = "10-overs"
	FormatFiveOvers  Format = "5-overs"
	FormatTwoOvers   Format = "2-overs"
)

// Decision is the toss winner's choice.
type Decision string

// Toss decisions.
const (
	DecisionBat  Decision = "bat"
	DecisionBowl Decision = "bowl"
)

// Toss records who won the toss and what they chose.
type Toss struct {
	Winner   string   `json:"winner" yaml:"winner"`
	Decision Decision `json:"decision" yaml:"decision"`
}

// Status is the lifecycle state of a match.
type Status string

// Match statuses.
const (
	StatusInProgress Status = "inprogress"
	StatusFinished   Status = "finished"
	StatusSuperOver  Status = "superover"
)

// Settings are the inputs a match is created from.
type Settings struct {
	TeamNames       [2]string `json:"team_names" yaml:"team_names"`
	OversPerInnings int       `json:"overs_per_innings" yaml:"overs_per_innings"`
	Toss            Toss      `json:"toss" yaml:"toss"`
	Format          Format    `json:"format" yaml:"format"`
}

// Validate checks settings before a match is built from them.
func (s Settings) Validate() error {
	if s.OversPerInnings <= 0 {
		return fmt.Errorf("%w: overs per innings must be positive", ErrInvalidSettings)
	}
	if s.TeamNames[0] == "" || s.TeamNames[1] == "" {
		return fmt.Errorf("%w: both team names are required", ErrInvalidSettings)
	}
	if s.TeamNames[0] == s.TeamNames[1] {
		return fmt.Errorf("%w: team names must differ", ErrInvalidSettings)
	}
	if s.Toss.Winner != s.TeamNames[0] && s.Toss.Winner != s.TeamNames[1] {
		return fmt.Errorf("%w: toss winner %q is not playing", ErrInvalidSettings, s.Toss.Winner)
	}
	if s.Toss.Decision != DecisionBat && s.Toss.Decision != DecisionBowl {
		return fmt.Errorf("%w: unknown toss decision %q", ErrInvalidSettings, s.Toss.Decision)
	}
	return nil
}

// Match is the aggregate the engine transforms. A super over is itself a
// Match with SuperOver set and WicketLimit of two.
type Match struct {
	ID              string    `json:"id"`
	Teams           [2]Team   `json:"teams"`
	OversPerInnings int       `json:"overs_per_innings"`
	Toss            Toss      `json:"toss"`
	Format          Format    `json:"format"`
	Innings         []Innings `json:"innings"`
	CurrentInnings  int       `json:"current_innings"`
	Status          Status    `json:"status"`
	Result          string    `json:"result,omitempty"`

	// IsSuperOver marks a tie-break sub-match.
	IsSuperOver bool `json:"is_super_over"`
	// WicketLimit caps wickets below the all-out count when positive.
	WicketLimit int    `json:"wicket_limit"`
	SuperOver   *Match `json:"super_over,omitempty"`

	// RatingsApplied is set by the host once post-match ratings are stored.
	RatingsApplied bool `json:"ratings_applied"`
}

// Settings returns the settings the match was created from.
func (m Match) Settings() Settings {
	return Settings{
		TeamNames:       [2]string{m.Teams[0].Name, m.Teams[1].Name},
		OversPerInnings: m.OversPerInnings,
		Toss:            m.Toss,
		Format:          m.Format,
	}
}

// Active returns the match deliveries currently apply to: the super over
// while one is being played, otherwise m itself.
func (m *Match) Active() *Match {
	if m.Status == StatusSuperOver && m.SuperOver != nil {
		return m.SuperOver
	}
	return m
}

// Current returns the innings in play, or nil before the first innings.
func (m *Match) Current() *Innings {
	if m.CurrentInnings < 0 || m.CurrentInnings >= len(m.Innings) {
		return nil
	}
	return &m.Innings[m.CurrentInnings]
}

// Batting returns the batting side of in.
func (m *Match) Batting(in *Innings) *Team { return &m.Teams[in.BattingTeam] }

// Bowling returns the bowling side of in.
func (m *Match) Bowling(in *Innings) *Team { return &m.Teams[in.BowlingTeam] }

// WicketCap is the number of wickets that ends in.
func (m Match) WicketCap(in Innings) int {
	limit := len(m.Teams[in.BattingTeam].PlayingXI()) - 1
	if m.WicketLimit > 0 && m.WicketLimit < limit {
		return m.WicketLimit
	}
	return limit
}

// InningsComplete reports whether in has ended by wickets or overs.
func (m Match) InningsComplete(in Innings) bool {
	return in.Wickets >= m.WicketCap(in) || in.Overs >= m.OversPerInnings
}

// StartInnings opens an innings for the batting side. Every playing-XI member
// of that side is marked not out and the first two take guard.
func (m *Match) StartInnings(batting, bowling int) (Innings, error) {
	team := &m.Teams[batting]
	xi := team.PlayingXI()
	if len(xi) < 2 {
		return Innings{}, fmt.Errorf("%w: %s has %d eligible batters", ErrRoster, team.Name, len(xi))
	}
	for i := range team.Players {
		if team.InPlayingXI(team.Players[i].ID) {
			team.Players[i].Batting.Status = NotOut
		} else {
			team.Players[i].Batting.Status = DidNotBat
		}
	}
	return Innings{
		BattingTeam: batting,
		BowlingTeam: bowling,
		OnStrike:    xi[0].ID,
		NonStrike:   xi[1].ID,
		Partnership: Partnership{Batsman1: xi[0].ID, Batsman2: xi[1].ID},
	}, nil
}

// History returns every recorded delivery in play order, main innings first
// and then any super over.
func (m Match) History() []Ball {
	var balls []Ball
	for _, in := range m.Innings {
		balls = append(balls, in.Timeline...)
	}
	if m.SuperOver != nil {
		balls = append(balls, m.SuperOver.History()...)
	}
	return balls
}

// Clone returns a deep copy of m. Nil and empty slices are preserved as they
// are so clones compare equal to their source.
func (m Match) Clone() Match {
	for i := range m.Teams {
		m.Teams[i] = m.Teams[i].clone()
	}
	if m.Innings != nil {
		innings := make([]Innings, len(m.Innings))
		for i, in := range m.Innings {
			innings[i] = in.clone()
		}
		m.Innings = innings
	}
	if m.SuperOver != nil {
		so := m.SuperOver.Clone()
		m.SuperOver = &so
	}
	return m
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
