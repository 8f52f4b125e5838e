// Package rules checks a proposed action against the current match state.
//
// Validation never changes the match. An empty result means the action may
// proceed; otherwise each violated rule contributes one message, in rule
// order.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/crease/internal/domain/model"
)

// Violation messages.
const (
	MsgConsecutiveOvers = "The same bowler cannot bowl consecutive overs."
	MsgDismissedBatsman = "A dismissed batsman cannot be selected."
	MsgInningsComplete  = "The innings is already complete."
	MsgMatchFinished    = "The match is already finished."
)

// quotaDivisor splits the innings overs into the per-bowler quota.
const quotaDivisor = 5

// rule inspects the active match for a proposed bowler and returns a
// violation message, or "" when satisfied.
type rule func(m *model.Match, in *model.Innings, bowler *model.Player) string

var deliveryRules = []rule{
	consecutiveOvers,
	bowlerQuota,
	dismissedBatsmen,
	inningsComplete,
	matchFinished,
}

var selectionRules = []rule{
	consecutiveOvers,
	bowlerQuota,
	inningsComplete,
	matchFinished,
}

// Validate checks the next delivery against the bowler currently selected.
func Validate(m model.Match) []string {
	active := m.Active()
	in := active.Current()
	if in == nil {
		return []string{MsgMatchFinished}
	}
	bowler := active.Bowling(in).Player(in.CurrentBowler)
	return run(deliveryRules, active, in, bowler)
}

// ValidateBowler checks whether bowlerID may take the next over.
func ValidateBowler(m model.Match, bowlerID string) []string {
	active := m.Active()
	in := active.Current()
	if in == nil {
		return []string{MsgMatchFinished}
	}
	team := active.Bowling(in)
	if !team.InPlayingXI(bowlerID) {
		return []string{fmt.Sprintf("%s is not in the %s playing XI.", bowlerID, team.Name)}
	}
	return run(selectionRules, active, in, team.Player(bowlerID))
}

// AvailableBowlers lists fielding XI members who could take the next over.
// Wicket-keepers are left out.
func AvailableBowlers(m model.Match) []model.Player {
	active := m.Active()
	in := active.Current()
	if in == nil {
		return nil
	}
	var out []model.Player
	for _, p := range active.Bowling(in).PlayingXI() {
		if p.Role == model.RoleWicketKeeper || p.ID == in.CurrentBowler {
			continue
		}
		bowler := p
		if consecutiveOvers(active, in, &bowler) != "" || bowlerQuota(active, in, &bowler) != "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Quota returns the most overs one bowler may bowl in an innings of the
// given length.
func Quota(oversPerInnings int) float64 {
	return float64(oversPerInnings) / quotaDivisor
}

// Name returns a stable short label for a violation message, suitable for
// metrics.
func Name(msg string) string {
	switch {
	case msg == MsgConsecutiveOvers:
		return "consecutive_overs"
	case msg == MsgDismissedBatsman:
		return "dismissed_batsman"
	case msg == MsgInningsComplete:
		return "innings_complete"
	case msg == MsgMatchFinished:
		return "match_finished"
	case IsQuota(msg):
		return "bowler_quota"
	case strings.HasSuffix(msg, "playing XI."):
		return "playing_xi"
	default:
		return "other"
	}
}

func run(rules []rule, m *model.Match, in *model.Innings, bowler *model.Player) []string {
	var violations []string
	for _, r := range rules {
		if msg := r(m, in, bowler); msg != "" {
			violations = append(violations, msg)
		}
	}
	return violations
}

func consecutiveOvers(_ *model.Match, in *model.Innings, bowler *model.Player) string {
	if bowler == nil || in.LastOverBowler == "" {
		return ""
	}
	if bowler.ID == in.LastOverBowler {
		return MsgConsecutiveOvers
	}
	return ""
}

// bowlerQuota compares the overs bowled, counted in balls, with the quota.
// In short formats the quota is a fraction of an over, so a bowler can
// reach it inside their first over.
func bowlerQuota(m *model.Match, _ *model.Innings, bowler *model.Player) string {
	if bowler == nil {
		return ""
	}
	quota := Quota(m.OversPerInnings)
	if float64(bowler.Bowling.BallsBowled)/model.BallsPerOver >= quota {
		return fmt.Sprintf("%s has already bowled their maximum of %s overs.",
			bowler.Name, strconv.FormatFloat(quota, 'f', -1, 64))
	}
	return ""
}

// IsQuota reports whether msg is a bowler quota violation.
func IsQuota(msg string) bool {
	return strings.Contains(msg, "maximum of")
}

func dismissedBatsmen(m *model.Match, in *model.Innings, _ *model.Player) string {
	team := m.Batting(in)
	for _, id := range []string{in.OnStrike, in.NonStrike} {
		if p := team.Player(id); p != nil && p.Batting.Status == model.Out {
			return MsgDismissedBatsman
		}
	}
	return ""
}

func inningsComplete(m *model.Match, in *model.Innings, _ *model.Player) string {
	if m.InningsComplete(*in) {
		return MsgInningsComplete
	}
	return ""
}

func matchFinished(m *model.Match, _ *model.Innings, _ *model.Player) string {
	if m.Status == model.StatusFinished {
		return MsgMatchFinished
	}
	return ""
}
