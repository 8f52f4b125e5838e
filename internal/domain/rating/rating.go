// Package rating adjusts player ratings from a finished match.
package rating

import (
	"github.com/okian/crease/internal/domain/model"
)

// Batting coefficients.
const (
	runWeight          = 0.1
	centuryBonus       = 10.0
	halfCenturyBonus   = 5.0
	fastStrikeRate     = 150.0
	slowStrikeRate     = 80.0
	strikeRateWeight   = 0.02
	slowStrikeMinBalls = 10
)

// Bowling coefficients.
const (
	wicketWeight     = 2.0
	fiveWicketBonus  = 10.0
	threeWicketBonus = 5.0
	maidenWeight     = 2.0
	tightEconomy     = 4.0
	looseEconomy     = 10.0
	looseWeight      = 0.5
	economyMinBalls  = 12
)

// Adjust returns both squads of m with ratings updated from their main
// match figures, keyed by team name. Super-over figures are not rated.
func Adjust(m model.Match) map[string][]model.Player {
	out := make(map[string][]model.Player, len(m.Teams))
	for _, t := range m.Teams {
		players := make([]model.Player, len(t.Players))
		for i, p := range t.Players {
			p.Rating = Rate(p)
			players[i] = p
		}
		out[t.Name] = players
	}
	return out
}

// Rate computes p's rating after the match, clamped to the rating range.
func Rate(p model.Player) float64 {
	base := p.Rating
	if base <= 0 {
		base = model.DefaultRating
	}
	return clamp(base + batting(p.Batting) + bowling(p.Bowling))
}

func batting(r model.BattingRecord) float64 {
	if r.BallsFaced == 0 {
		return 0
	}
	delta := float64(r.Runs) * runWeight
	switch {
	case r.Runs >= 100:
		delta += centuryBonus
	case r.Runs >= 50:
		delta += halfCenturyBonus
	}
	if r.StrikeRate > fastStrikeRate {
		delta += (r.StrikeRate - fastStrikeRate) * strikeRateWeight
	}
	if r.StrikeRate < slowStrikeRate && r.BallsFaced > slowStrikeMinBalls {
		delta -= (slowStrikeRate - r.StrikeRate) * strikeRateWeight
	}
	return delta
}

func bowling(r model.BowlingRecord) float64 {
	if r.BallsBowled == 0 {
		return 0
	}
	delta := float64(r.Wickets) * wicketWeight
	switch {
	case r.Wickets >= 5:
		delta += fiveWicketBonus
	case r.Wickets >= 3:
		delta += threeWicketBonus
	}
	delta += float64(r.Maidens) * maidenWeight
	if r.BallsBowled >= economyMinBalls {
		if r.EconomyRate < tightEconomy {
			delta += tightEconomy - r.EconomyRate
		}
		if r.EconomyRate > looseEconomy {
			delta -= (r.EconomyRate - looseEconomy) * looseWeight
		}
	}
	return delta
}

func clamp(v float64) float64 {
	return max(model.MinRating, min(model.MaxRating, v))
}
