package engine

import (
	"fmt"

	"github.com/okian/crease/internal/domain/model"
)

// End identifies a batting position at the crease.
type End int

// Crease ends.
const (
	Striker End = iota
	NonStriker
)

// SelectBowler sets the bowler for the innings in play. Rotation and quota
// rules are left to the rules package.
func SelectBowler(m model.Match, bowlerID string) (model.Match, error) {
	next := m.Clone()
	active := next.Active()
	if active.Status == model.StatusFinished {
		return m, model.ErrMatchFinished
	}
	in := active.Current()
	team := active.Bowling(in)
	if !team.InPlayingXI(bowlerID) {
		return m, fmt.Errorf("%w: %s is not in the %s playing XI", model.ErrInvalidSelection, bowlerID, team.Name)
	}
	in.CurrentBowler = bowlerID
	return next, nil
}

// SelectBatsman places a batter at one end. Choosing a dismissed batter is
// allowed here and reported by the rules package.
func SelectBatsman(m model.Match, end End, batsmanID string) (model.Match, error) {
	next := m.Clone()
	active := next.Active()
	if active.Status == model.StatusFinished {
		return m, model.ErrMatchFinished
	}
	in := active.Current()
	team := active.Batting(in)
	if !team.InPlayingXI(batsmanID) {
		return m, fmt.Errorf("%w: %s is not in the %s playing XI", model.ErrInvalidSelection, batsmanID, team.Name)
	}
	slot, other := &in.OnStrike, in.NonStrike
	if end == NonStriker {
		slot, other = &in.NonStrike, in.OnStrike
	}
	if batsmanID == other {
		return m, fmt.Errorf("%w: %s is already at the other end", model.ErrInvalidSelection, batsmanID)
	}
	if *slot != batsmanID {
		*slot = batsmanID
		in.Partnership = model.Partnership{Batsman1: in.OnStrike, Batsman2: in.NonStrike}
	}
	return next, nil
}

// SetFieldPlacements replaces the field for the current over. Placements are
// cleared when the over ends.
func SetFieldPlacements(m model.Match, placements []model.FieldPlacement) (model.Match, error) {
	next := m.Clone()
	active := next.Active()
	if active.Status == model.StatusFinished {
		return m, model.ErrMatchFinished
	}
	in := active.Current()
	team := active.Bowling(in)
	for _, fp := range placements {
		if fp.Position == "" {
			return m, fmt.Errorf("%w: field placement without a position", model.ErrInvalidSelection)
		}
		if !team.InPlayingXI(fp.PlayerID) {
			return m, fmt.Errorf("%w: %s is not fielding for %s", model.ErrInvalidSelection, fp.PlayerID, team.Name)
		}
	}
	in.FieldPlacements = append([]model.FieldPlacement{}, placements...)
	return next, nil
}

// UpdatePlayerAttributes changes a squad member's role and bowling style.
func UpdatePlayerAttributes(m model.Match, team int, playerID string, role model.Role, style model.BowlingStyle) (model.Match, error) {
	if team < 0 || team > 1 {
		return m, fmt.Errorf("%w: team index %d", model.ErrInvalidSelection, team)
	}
	if !role.Valid() || !style.Valid() {
		return m, fmt.Errorf("%w: role %q style %q", model.ErrInvalidSelection, role, style)
	}
	next := m.Clone()
	p := next.Teams[team].Player(playerID)
	if p == nil {
		return m, fmt.Errorf("%w: %s is not in the %s squad", model.ErrInvalidSelection, playerID, next.Teams[team].Name)
	}
	p.Role = role
	p.BowlingStyle = style
	return next, nil
}

// ActivateImpactPlayer brings a substitute into the playing XI in place of a
// member who has taken no part yet and appears on no recorded ball.
// Each side may do this once, and not during a super over.
func ActivateImpactPlayer(m model.Match, team int, substituteID, replacedID string) (model.Match, error) {
	if team < 0 || team > 1 {
		return m, fmt.Errorf("%w: team index %d", model.ErrInvalidSelection, team)
	}
	if m.Status != model.StatusInProgress {
		return m, fmt.Errorf("%w: impact players are only allowed in the main match", model.ErrInvalidState)
	}
	next := m.Clone()
	side := &next.Teams[team]
	if side.ImpactPlayerUsed {
		return m, fmt.Errorf("%w: %s has already used its impact player", model.ErrInvalidSelection, side.Name)
	}
	sub := side.Player(substituteID)
	if sub == nil || !sub.IsSubstitute || sub.IsImpactPlayer {
		return m, fmt.Errorf("%w: %s is not an available substitute", model.ErrInvalidSelection, substituteID)
	}
	if !side.InPlayingXI(replacedID) {
		return m, fmt.Errorf("%w: %s is not in the playing XI", model.ErrInvalidSelection, replacedID)
	}
	out := side.Player(replacedID)
	in := next.Current()
	if out.Batting.Status == model.Out || out.Batting.BallsFaced > 0 || bowled(out.Bowling) ||
		replacedID == in.OnStrike || replacedID == in.NonStrike || replacedID == in.CurrentBowler ||
		onTimeline(m, replacedID) {
		return m, fmt.Errorf("%w: %s has already taken part", model.ErrInvalidSelection, replacedID)
	}

	sub.IsImpactPlayer = true
	out.IsSubstitute = true
	side.ImpactPlayerUsed = true
	out.Batting.Status = model.DidNotBat
	if hasBatted(next, team) {
		sub.Batting.Status = model.NotOut
	}
	return next, nil
}

// bowled reports whether r records any delivery, wides and no-balls
// included.
func bowled(r model.BowlingRecord) bool {
	return r.BallsBowled > 0 || r.RunsConceded > 0 || r.Wides > 0 || r.NoBalls > 0
}

// onTimeline reports whether id bowled, faced or fielded any recorded ball.
// Undo replays these balls, so such a player must stay in the XI.
func onTimeline(m model.Match, id string) bool {
	for _, b := range m.History() {
		if b.BowlerID == id || b.BatsmanID == id || b.FielderID == id {
			return true
		}
	}
	return false
}

func hasBatted(m model.Match, team int) bool {
	for _, in := range m.Innings {
		if in.BattingTeam == team {
			return true
		}
	}
	return false
}
