// Package model contains the match aggregate and the values that flow through it.
//
// Every type here is a plain value. Transforms receive a Match, clone it, and
// return the clone, so callers never observe a partially applied delivery.
package model

// Squad and rating constants.
const (
	SquadSize     = 15
	PlayingXISize = 11
	DefaultRating = 75.0
	MinRating     = 1.0
	MaxRating     = 100.0
)

// Role is a player's primary discipline.
type Role string

// Player roles.
const (
	RoleBatsman      Role = "Batsman"
	RoleBowler       Role = "Bowler"
	RoleAllRounder   Role = "All-Rounder"
	RoleWicketKeeper Role = "Wicket-Keeper"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketKeeper:
		return true
	}
	return false
}

// BowlingStyle describes how a player bowls.
type BowlingStyle string

// Bowling styles.
const (
	RightArmFast          BowlingStyle = "Right-arm Fast"
	RightArmMedium        BowlingStyle = "Right-arm Medium"
	LeftArmFast           BowlingStyle = "Left-arm Fast"
	LeftArmMedium         BowlingStyle = "Left-arm Medium"
	OffSpin               BowlingStyle = "Off Spin"
	LegSpin               BowlingStyle = "Leg Spin"
	SlowLeftArmOrthodox   BowlingStyle = "Slow Left-arm Orthodox"
	SlowLeftArmUnorthodox BowlingStyle = "Slow Left-arm Unorthodox"
)

// BowlingStyles lists every style in a stable order.
var BowlingStyles = []BowlingStyle{
	RightArmFast,
	RightArmMedium,
	LeftArmFast,
	LeftArmMedium,
	OffSpin,
	LegSpin,
	SlowLeftArmOrthodox,
	SlowLeftArmUnorthodox,
}

// Valid reports whether s is a known style. The empty style is valid.
func (s BowlingStyle) Valid() bool {
	if s == "" {
		return true
	}
	for _, known := range BowlingStyles {
		if s == known {
			return true
		}
	}
	return false
}

// BattingStatus tracks where a batter is in the innings.
type BattingStatus string

// Batting statuses.
const (
	DidNotBat BattingStatus = "did not bat"
	NotOut    BattingStatus = "not out"
	Out       BattingStatus = "out"
)

// BattingRecord accumulates a player's batting figures.
type BattingRecord struct {
	Runs       int           `json:"runs"`
	BallsFaced int           `json:"balls_faced"`
	Fours      int           `json:"fours"`
	Sixes      int           `json:"sixes"`
	Status     BattingStatus `json:"status"`
	StrikeRate float64       `json:"strike_rate"`
	Dismissal  string        `json:"dismissal,omitempty"`
}

// BowlingRecord accumulates a player's bowling figures. BallsBowled counts
// legal deliveries only.
type BowlingRecord struct {
	BallsBowled  int     `json:"balls_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	Maidens      int     `json:"maidens"`
	Wickets      int     `json:"wickets"`
	EconomyRate  float64 `json:"economy_rate"`
	Wides        int     `json:"wides"`
	NoBalls      int     `json:"no_balls"`
}

// FieldingRecord counts dismissals a player took part in as a fielder.
type FieldingRecord struct {
	Catches   int `json:"catches"`
	Stumpings int `json:"stumpings"`
	RunOuts   int `json:"run_outs"`
}

// Player is a squad member together with their figures for the match.
type Player struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Rating         float64        `json:"rating"`
	Role           Role           `json:"role,omitempty"`
	BowlingStyle   BowlingStyle   `json:"bowling_style,omitempty"`
	IsSubstitute   bool           `json:"is_substitute"`
	IsImpactPlayer bool           `json:"is_impact_player"`
	Batting        BattingRecord  `json:"batting"`
	Bowling        BowlingRecord  `json:"bowling"`
	Fielding       FieldingRecord `json:"fielding"`
}

// Fresh returns the player with all match figures cleared. Identity, rating,
// role, style and squad flags are kept.
func (p Player) Fresh() Player {
	p.Batting = BattingRecord{Status: DidNotBat}
	p.Bowling = BowlingRecord{}
	p.Fielding = FieldingRecord{}
	return p
}

// Overs returns completed overs bowled.
func (p Player) Overs() int {
	return p.Bowling.BallsBowled / BallsPerOver
}
