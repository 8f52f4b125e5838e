package engine

import (
	"fmt"

	"github.com/okian/crease/internal/domain/model"
)

// Result messages.
const (
	resultTied          = "Match tied. Starting Super Over!"
	resultSuperOverTied = "Super Over tied."
)

// settle moves the match on after a delivery: the chase ends the instant the
// target is passed, otherwise a completed innings rolls over or finishes.
func settle(m *model.Match) error {
	in := m.Current()
	if m.CurrentInnings == 1 && in.Score > m.Innings[0].Score {
		return finish(m)
	}
	if !m.InningsComplete(*in) {
		return nil
	}
	if m.CurrentInnings == 0 {
		second, err := m.StartInnings(in.BowlingTeam, in.BattingTeam)
		if err != nil {
			return err
		}
		m.Innings = append(m.Innings, second)
		m.CurrentInnings = 1
		return nil
	}
	return finish(m)
}

// finish decides the match from the two innings scores.
func finish(m *model.Match) error {
	first, second := m.Innings[0], m.Innings[1]
	switch {
	case second.Score > first.Score:
		m.Status = model.StatusFinished
		if m.IsSuperOver {
			m.Result = m.Teams[second.BattingTeam].Name + " won the super over."
			return nil
		}
		left := m.WicketCap(second) - second.Wickets
		m.Result = fmt.Sprintf("%s won by %d %s.", m.Teams[second.BattingTeam].Name, left, plural(left, "wicket"))
	case first.Score > second.Score:
		m.Status = model.StatusFinished
		if m.IsSuperOver {
			m.Result = m.Teams[first.BattingTeam].Name + " won the super over."
			return nil
		}
		margin := first.Score - second.Score
		m.Result = fmt.Sprintf("%s won by %d %s.", m.Teams[first.BattingTeam].Name, margin, plural(margin, "run"))
	default:
		if m.IsSuperOver {
			m.Status = model.StatusFinished
			m.Result = resultSuperOverTied
			return nil
		}
		return startSuperOver(m)
	}
	return nil
}

// startSuperOver opens the tie-break. The side that bowled second bats first,
// and both sides play from fresh copies of their squads so the main match
// figures are left as they finished.
func startSuperOver(m *model.Match) error {
	so := model.Match{
		ID:              m.ID + "/super-over",
		Teams:           [2]model.Team{m.Teams[0].Fresh(), m.Teams[1].Fresh()},
		OversPerInnings: model.SuperOverOvers,
		Toss:            m.Toss,
		Format:          m.Format,
		Status:          model.StatusInProgress,
		IsSuperOver:     true,
		WicketLimit:     model.SuperOverWickets,
	}
	second := m.Innings[1]
	first, err := so.StartInnings(second.BowlingTeam, second.BattingTeam)
	if err != nil {
		return err
	}
	so.Innings = []model.Innings{first}
	m.SuperOver = &so
	m.Status = model.StatusSuperOver
	m.Result = resultTied
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
