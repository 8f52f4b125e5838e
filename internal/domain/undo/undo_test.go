package undo_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/crease/internal/domain/engine"
	"github.com/okian/crease/internal/domain/factory"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/undo"
	. "github.com/smartystreets/goconvey/convey"
)

func newMatch(overs int) model.Match {
	pool := make([]model.Player, 30)
	for i := range pool {
		pool[i] = model.Player{ID: fmt.Sprintf("p%02d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	m, err := factory.New(factory.WithSeed(5), factory.WithIDGenerator(func() string { return "undo" })).Create(model.Settings{
		TeamNames:       [2]string{"Lions", "Tigers"},
		OversPerInnings: overs,
		Toss:            model.Toss{Winner: "Lions", Decision: model.DecisionBat},
		Format:          model.FormatTwoOvers,
	}, pool, nil)
	So(err, ShouldBeNil)
	return m
}

// play applies evs and returns the state before each ball followed by the
// final state. A bowler is chosen from the end of the fielding XI whenever
// one is needed, and that choice is part of the state before the ball.
func play(m model.Match, evs []model.BallEvent) []model.Match {
	states := []model.Match{m}
	for _, ev := range evs {
		active := m.Active()
		in := active.Current()
		var err error
		if in.CurrentBowler == "" {
			xi := active.Teams[in.BowlingTeam].PlayingXI()
			id := xi[10].ID
			if id == in.LastOverBowler {
				id = xi[9].ID
			}
			m, err = engine.SelectBowler(m, id)
			So(err, ShouldBeNil)
			states[len(states)-1] = m
		}
		m, err = engine.Apply(m, ev)
		So(err, ShouldBeNil)
		states = append(states, m)
	}
	return states
}

var innings = []model.BallEvent{
	{Kind: model.KindRun, Runs: 1},
	{Kind: model.KindNoBall, Extras: 1},
	{Kind: model.KindWicket, WicketType: model.Caught},
	{Kind: model.KindRun, Runs: 4},
	{Kind: model.KindWide, Extras: 1},
	{Kind: model.KindWicket, WicketType: model.Bowled},
	{Kind: model.KindLegBye, Extras: 1},
	{Kind: model.KindRun, Runs: 2},
	{Kind: model.KindRun},
	{Kind: model.KindBye, Extras: 2},
	{Kind: model.KindRun, Runs: 6},
	{Kind: model.KindRun, Runs: 3},
	{Kind: model.KindRun},
}

func TestUndo(t *testing.T) {
	Convey("Given a match with nothing bowled", t, func() {
		m := newMatch(2)

		Convey("When undo is requested", func() {
			next, err := undo.Undo(m)

			Convey("Then it reports there is nothing to undo", func() {
				So(errors.Is(err, model.ErrNothingToUndo), ShouldBeTrue)
				So(errors.Is(err, model.ErrReplayInconsistency), ShouldBeTrue)
				So(next, ShouldResemble, m)
			})
		})
	})

	Convey("Given every state of a two-over match", t, func() {
		states := play(newMatch(2), innings)

		Convey("Then undoing each ball yields the state before it", func() {
			for i := len(states) - 1; i > 0; i-- {
				prev, err := undo.Undo(states[i])
				So(err, ShouldBeNil)
				So(prev, ShouldResemble, states[i-1])
			}
		})

		Convey("Then undo does not touch its input", func() {
			last := states[len(states)-1]
			before := last.Clone()
			_, err := undo.Undo(last)
			So(err, ShouldBeNil)
			So(last, ShouldResemble, before)
		})
	})

	Convey("Given a match that went to a super over", t, func() {
		dots := make([]model.BallEvent, 24)
		for i := range dots {
			dots[i] = model.BallEvent{Kind: model.KindRun}
		}
		dots[13] = model.BallEvent{Kind: model.KindRun, Runs: 1}
		states := play(newMatch(1), dots)
		last := states[len(states)-1]
		So(last.Status, ShouldEqual, model.StatusFinished)
		So(last.Result, ShouldEqual, "Lions won the super over.")

		Convey("Then undo steps back into the super over and then out of it", func() {
			for i := len(states) - 1; i >= 11; i-- {
				prev, err := undo.Undo(states[i])
				So(err, ShouldBeNil)
				So(prev, ShouldResemble, states[i-1])
			}
		})
	})
}

func TestUndoAfterImpactPlayer(t *testing.T) {
	Convey("Given a bowler who has only bowled a wide before being taken off", t, func() {
		m := newMatch(2)
		xi := m.Teams[1].PlayingXI()
		wide, dot := xi[10].ID, xi[9].ID
		sub := m.Teams[1].Players[12].ID

		m, err := engine.SelectBowler(m, wide)
		So(err, ShouldBeNil)
		m, err = engine.Apply(m, model.BallEvent{Kind: model.KindWide})
		So(err, ShouldBeNil)
		m, err = engine.SelectBowler(m, dot)
		So(err, ShouldBeNil)
		m, err = engine.Apply(m, model.BallEvent{Kind: model.KindRun})
		So(err, ShouldBeNil)

		Convey("When the fielding side tries to replace them with its impact player", func() {
			_, err := engine.ActivateImpactPlayer(m, 1, sub, wide)

			Convey("Then the swap is refused", func() {
				So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
			})
		})

		Convey("When a fielder with no part in the play is replaced instead", func() {
			next, err := engine.ActivateImpactPlayer(m, 1, sub, xi[5].ID)
			So(err, ShouldBeNil)

			Convey("Then every ball can still be undone", func() {
				prev, err := undo.Undo(next)
				So(err, ShouldBeNil)
				So(len(prev.History()), ShouldEqual, 1)
				So(prev.Teams[1].InPlayingXI(sub), ShouldBeTrue)

				first, err := undo.Undo(prev)
				So(err, ShouldBeNil)
				So(first.History(), ShouldBeEmpty)
			})
		})
	})
}

func TestReplay(t *testing.T) {
	Convey("Given a played match", t, func() {
		states := play(newMatch(2), innings)
		last := states[len(states)-1]

		Convey("When its full history is replayed", func() {
			replayed, err := undo.Replay(last, last.History())

			Convey("Then the same match is reproduced", func() {
				So(err, ShouldBeNil)
				So(replayed, ShouldResemble, last)
			})
		})

		Convey("When the history names a bowler from the wrong side", func() {
			history := last.History()
			history[0].BowlerID = last.Teams[0].Players[0].ID
			_, err := undo.Replay(last, history)
			So(errors.Is(err, model.ErrReplayInconsistency), ShouldBeTrue)
		})
	})
}
