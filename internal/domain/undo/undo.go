// Package undo reverts deliveries by replaying the recorded history.
//
// There is no reverse transform. Undo rebuilds the match from its squads and
// settings and folds every surviving ball through engine.Apply, so any state
// reached by undo is one forward play could reach too.
package undo

import (
	"fmt"

	"github.com/okian/crease/internal/domain/engine"
	"github.com/okian/crease/internal/domain/factory"
	"github.com/okian/crease/internal/domain/model"
)

// Undo drops the most recent delivery of m. An empty history returns m
// unchanged with model.ErrNothingToUndo.
func Undo(m model.Match) (model.Match, error) {
	history := m.History()
	if len(history) == 0 {
		return m, model.ErrNothingToUndo
	}
	last := history[len(history)-1]
	next, err := Replay(m, history[:len(history)-1])
	if err != nil {
		return m, err
	}

	// The bowler of the dropped ball stays selected when the over is still
	// theirs to finish.
	if in := next.Active().Current(); in != nil && in.CurrentBowler == "" && next.Status != model.StatusFinished {
		if restored, err := engine.SelectBowler(next, last.BowlerID); err == nil {
			next = restored
		}
	}
	return next, nil
}

// Replay rebuilds m from scratch and applies balls in order. Each ball is
// bowled by the bowler it records, reselected whenever the replayed state
// has someone else or nobody selected.
func Replay(m model.Match, balls []model.Ball) (model.Match, error) {
	next, err := factory.Rebuild(m)
	if err != nil {
		return m, fmt.Errorf("%w: %v", model.ErrReplayInconsistency, err)
	}
	for i, b := range balls {
		in := next.Active().Current()
		if in == nil {
			return m, fmt.Errorf("%w: no innings for ball %d", model.ErrReplayInconsistency, i)
		}
		if in.CurrentBowler != b.BowlerID {
			if next, err = engine.SelectBowler(next, b.BowlerID); err != nil {
				return m, fmt.Errorf("%w: ball %d: %v", model.ErrReplayInconsistency, i, err)
			}
		}
		if next, err = engine.Apply(next, b.Event()); err != nil {
			return m, fmt.Errorf("%w: ball %d: %v", model.ErrReplayInconsistency, i, err)
		}
	}
	next.RatingsApplied = m.RatingsApplied
	return next, nil
}
