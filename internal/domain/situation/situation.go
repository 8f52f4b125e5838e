// Package situation summarises the state of play for display.
package situation

import (
	"github.com/okian/crease/internal/domain/model"
)

// unreachableRate is reported as the required rate once no balls remain.
const unreachableRate = 999

// Situation describes the innings in play.
type Situation struct {
	Innings         int     `json:"innings"`
	SuperOver       bool    `json:"super_over"`
	BattingTeam     string  `json:"batting_team"`
	BowlingTeam     string  `json:"bowling_team"`
	Score           int     `json:"score"`
	Wickets         int     `json:"wickets"`
	Overs           float64 `json:"overs"`
	OversLeft       int     `json:"overs_left"`
	CurrentRunRate  float64 `json:"current_run_rate"`
	PowerplayOvers  int     `json:"powerplay_overs"`
	InPowerplay     bool    `json:"in_powerplay"`
	Chasing         bool    `json:"chasing"`
	Target          int     `json:"target,omitempty"`
	RunsNeeded      int     `json:"runs_needed,omitempty"`
	BallsRemaining  int     `json:"balls_remaining,omitempty"`
	RequiredRunRate float64 `json:"required_run_rate,omitempty"`
}

// Of returns the situation of the innings currently in play, the super over
// included. The second ok value is false before any innings exists.
func Of(m model.Match) (Situation, bool) {
	active := m.Active()
	in := active.Current()
	if in == nil {
		return Situation{}, false
	}
	powerplay := PowerplayOvers(active.Format)
	if active.IsSuperOver {
		powerplay = 0
	}
	s := Situation{
		Innings:        active.CurrentInnings + 1,
		SuperOver:      active.IsSuperOver,
		BattingTeam:    active.Batting(in).Name,
		BowlingTeam:    active.Bowling(in).Name,
		Score:          in.Score,
		Wickets:        in.Wickets,
		Overs:          in.OverMarker(),
		OversLeft:      active.OversPerInnings - in.Overs,
		CurrentRunRate: CurrentRunRate(in.Score, in.LegalBalls()),
		PowerplayOvers: powerplay,
		InPowerplay:    in.Overs < powerplay,
		Chasing:        active.CurrentInnings == 1,
	}
	if s.Chasing {
		s.Target = active.Innings[0].Score + 1
		s.RunsNeeded = max(0, s.Target-in.Score)
		s.BallsRemaining = active.OversPerInnings*model.BallsPerOver - in.LegalBalls()
		s.RequiredRunRate = RequiredRunRate(s.Target, in.Score, s.BallsRemaining)
	}
	return s, true
}

// CurrentRunRate is runs per six legal balls.
func CurrentRunRate(score, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(score) / float64(balls) * model.BallsPerOver
}

// RequiredRunRate is the rate needed to reach target from score.
func RequiredRunRate(target, score, ballsRemaining int) float64 {
	if ballsRemaining <= 0 {
		return unreachableRate
	}
	needed := target - score
	if needed <= 0 {
		return 0
	}
	return float64(needed) / float64(ballsRemaining) * model.BallsPerOver
}

// PowerplayOvers returns the fielding-restriction overs for a format.
func PowerplayOvers(f model.Format) int {
	switch f {
	case model.FormatT20:
		return 6
	case model.FormatFiftyOvers:
		return 10
	case model.FormatTenOvers:
		return 3
	case model.FormatFiveOvers, model.FormatTwoOvers:
		return 1
	default:
		return 0
	}
}
