package rules_test

import (
	"fmt"
	"testing"

	"github.com/okian/crease/internal/domain/engine"
	"github.com/okian/crease/internal/domain/factory"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

var dot = model.BallEvent{Kind: model.KindRun}

func newMatch(overs int) model.Match {
	pool := make([]model.Player, 30)
	for i := range pool {
		pool[i] = model.Player{ID: fmt.Sprintf("p%02d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	m, err := factory.New(factory.WithSeed(3)).Create(model.Settings{
		TeamNames:       [2]string{"Lions", "Tigers"},
		OversPerInnings: overs,
		Toss:            model.Toss{Winner: "Tigers", Decision: model.DecisionBowl},
		Format:          model.FormatTenOvers,
	}, pool, nil)
	So(err, ShouldBeNil)
	return m
}

// over bowls six dot balls with the given bowler.
func over(m model.Match, bowlerID string) model.Match {
	m, err := engine.SelectBowler(m, bowlerID)
	So(err, ShouldBeNil)
	for i := 0; i < model.BallsPerOver; i++ {
		m, err = engine.Apply(m, dot)
		So(err, ShouldBeNil)
	}
	return m
}

func TestValidate(t *testing.T) {
	Convey("Given a ten-over match after one over", t, func() {
		m := newMatch(10)
		xi := m.Teams[1].PlayingXI()
		first, second := xi[10], xi[9]
		m = over(m, first.ID)

		Convey("When the same bowler is chosen again", func() {
			next, err := engine.SelectBowler(m, first.ID)
			So(err, ShouldBeNil)
			So(rules.Validate(next), ShouldResemble, []string{rules.MsgConsecutiveOvers})
			So(rules.ValidateBowler(m, first.ID), ShouldResemble, []string{rules.MsgConsecutiveOvers})
		})

		Convey("When a different bowler is chosen", func() {
			next, err := engine.SelectBowler(m, second.ID)
			So(err, ShouldBeNil)
			So(rules.Validate(next), ShouldBeEmpty)
		})

		Convey("When the first bowler returns after their quota", func() {
			m = over(m, second.ID)
			m = over(m, first.ID)
			m = over(m, second.ID)
			So(m.Teams[1].Player(first.ID).Overs(), ShouldEqual, 2)
			violations := rules.ValidateBowler(m, first.ID)
			So(violations, ShouldResemble, []string{
				fmt.Sprintf("%s has already bowled their maximum of 2 overs.", first.Name),
			})
		})

		Convey("When the validation runs the match is left unchanged", func() {
			before := m.Clone()
			rules.Validate(m)
			rules.AvailableBowlers(m)
			So(m, ShouldResemble, before)
		})
	})

	Convey("Given a dismissed batter returned to the crease", t, func() {
		m := newMatch(10)
		m = over(m, m.Teams[1].PlayingXI()[10].ID)
		out := m.Innings[0].OnStrike
		m, err := engine.SelectBowler(m, m.Teams[1].PlayingXI()[9].ID)
		So(err, ShouldBeNil)
		m, err = engine.Apply(m, model.BallEvent{Kind: model.KindWicket, WicketType: model.Bowled})
		So(err, ShouldBeNil)
		m, err = engine.SelectBatsman(m, engine.Striker, out)
		So(err, ShouldBeNil)

		So(rules.Validate(m), ShouldResemble, []string{rules.MsgDismissedBatsman})
	})

	Convey("Given a finished match", t, func() {
		m := newMatch(1)
		m = over(m, m.Teams[1].PlayingXI()[10].ID)
		m = over(m, m.Teams[0].PlayingXI()[10].ID)
		So(m.Status, ShouldEqual, model.StatusSuperOver)

		m = over(m, m.Teams[1].PlayingXI()[10].ID)
		m = over(m, m.Teams[0].PlayingXI()[10].ID)
		So(m.Status, ShouldEqual, model.StatusFinished)

		violations := rules.Validate(m)
		So(violations, ShouldContain, rules.MsgInningsComplete)
		So(violations[len(violations)-1], ShouldEqual, rules.MsgMatchFinished)
	})
}

func TestQuota(t *testing.T) {
	Convey("The per-bowler quota is a fifth of the innings", t, func() {
		So(rules.Quota(20), ShouldEqual, 4.0)
		So(rules.Quota(2), ShouldEqual, 0.4)
	})
}

func TestFractionalQuota(t *testing.T) {
	Convey("Given a two-over match", t, func() {
		m := newMatch(2)
		bowler := m.Teams[1].PlayingXI()[10]
		m, err := engine.SelectBowler(m, bowler.ID)
		So(err, ShouldBeNil)

		Convey("When the bowler has bowled two legal balls", func() {
			for i := 0; i < 2; i++ {
				m, err = engine.Apply(m, dot)
				So(err, ShouldBeNil)
			}

			Convey("Then they are still within a quota of 0.4 overs", func() {
				So(rules.Validate(m), ShouldBeEmpty)
			})
		})

		Convey("When the bowler has bowled three legal balls", func() {
			for i := 0; i < 3; i++ {
				m, err = engine.Apply(m, dot)
				So(err, ShouldBeNil)
			}

			Convey("Then the quota is reported", func() {
				want := fmt.Sprintf("%s has already bowled their maximum of 0.4 overs.", bowler.Name)
				So(rules.Validate(m), ShouldResemble, []string{want})
				So(rules.IsQuota(want), ShouldBeTrue)
				So(rules.IsQuota(rules.MsgConsecutiveOvers), ShouldBeFalse)
			})
		})

		Convey("When a wide is bowled", func() {
			m, err = engine.Apply(m, model.BallEvent{Kind: model.KindWide})
			So(err, ShouldBeNil)

			Convey("Then it does not count toward the quota", func() {
				So(rules.Validate(m), ShouldBeEmpty)
			})
		})
	})
}

func TestAvailableBowlers(t *testing.T) {
	Convey("Given a ten-over match after one over", t, func() {
		m := newMatch(10)
		xi := m.Teams[1].PlayingXI()
		m = over(m, xi[10].ID)

		bowlers := rules.AvailableBowlers(m)
		ids := make([]string, 0, len(bowlers))
		for _, p := range bowlers {
			So(p.Role, ShouldNotEqual, model.RoleWicketKeeper)
			ids = append(ids, p.ID)
		}
		So(ids, ShouldNotContain, xi[10].ID)
		So(ids, ShouldContain, xi[9].ID)
		So(len(ids), ShouldEqual, 9)
	})
}

func TestName(t *testing.T) {
	Convey("Violation messages map to metric labels", t, func() {
		So(rules.Name(rules.MsgConsecutiveOvers), ShouldEqual, "consecutive_overs")
		So(rules.Name(rules.MsgMatchFinished), ShouldEqual, "match_finished")
		So(rules.Name("Ravi has already bowled their maximum of 4 overs."), ShouldEqual, "bowler_quota")
		So(rules.Name("p1 is not in the Lions playing XI."), ShouldEqual, "playing_xi")
		So(rules.Name("something else"), ShouldEqual, "other")
	})
}
