package engine_test

import (
	"errors"
	"testing"

	"github.com/okian/crease/internal/domain/engine"
	"github.com/okian/crease/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelectBowler(t *testing.T) {
	Convey("Given a new match", t, func() {
		m := newMatch(2)

		Convey("When a batting-side player is chosen to bowl", func() {
			_, err := engine.SelectBowler(m, m.Teams[0].Players[0].ID)
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})

		Convey("When a substitute is chosen to bowl", func() {
			_, err := engine.SelectBowler(m, m.Teams[1].Players[12].ID)
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})

		Convey("When a fielding XI member is chosen", func() {
			id := m.Teams[1].Players[9].ID
			next, err := engine.SelectBowler(m, id)
			So(err, ShouldBeNil)
			So(next.Innings[0].CurrentBowler, ShouldEqual, id)
			So(m.Innings[0].CurrentBowler, ShouldBeEmpty)
		})
	})
}

func TestSelectBatsman(t *testing.T) {
	Convey("Given a new match", t, func() {
		m := newMatch(2)
		xi := m.Teams[0].PlayingXI()

		Convey("When a different batter is sent in at the non-striker's end", func() {
			next, err := engine.SelectBatsman(m, engine.NonStriker, xi[5].ID)
			So(err, ShouldBeNil)
			in := next.Innings[0]
			So(in.NonStrike, ShouldEqual, xi[5].ID)
			So(in.Partnership, ShouldResemble, model.Partnership{Batsman1: xi[0].ID, Batsman2: xi[5].ID})
		})

		Convey("When the striker is also sent to the other end", func() {
			_, err := engine.SelectBatsman(m, engine.NonStriker, xi[0].ID)
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})
	})
}

func TestFieldPlacements(t *testing.T) {
	Convey("Given a two-over match with a bowler chosen", t, func() {
		m := bowl(newMatch(2), dot)
		fielder := m.Teams[1].PlayingXI()[2].ID

		Convey("When a field is set", func() {
			next, err := engine.SetFieldPlacements(m, []model.FieldPlacement{{Position: "slip", PlayerID: fielder}})
			So(err, ShouldBeNil)
			So(len(next.Innings[0].FieldPlacements), ShouldEqual, 1)

			Convey("Then it is cleared when the over ends", func() {
				next = bowl(next, repeat(dot, 5)...)
				So(next.Innings[0].Overs, ShouldEqual, 1)
				So(next.Innings[0].FieldPlacements, ShouldBeNil)
			})
		})

		Convey("When a batter is placed in the field", func() {
			_, err := engine.SetFieldPlacements(m, []model.FieldPlacement{{Position: "gully", PlayerID: m.Innings[0].OnStrike}})
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})
	})

	Convey("Given a field set for the last over of an innings", t, func() {
		m := bowl(newMatch(1), dot)
		m, err := engine.SetFieldPlacements(m, []model.FieldPlacement{{Position: "point", PlayerID: m.Teams[1].PlayingXI()[2].ID}})
		So(err, ShouldBeNil)

		Convey("Then it is cleared when the innings ends", func() {
			m = bowl(m, repeat(dot, 5)...)
			So(len(m.Innings), ShouldEqual, 2)
			So(m.Innings[0].FieldPlacements, ShouldBeNil)
		})
	})
}

func TestUpdatePlayerAttributes(t *testing.T) {
	Convey("Given a new match", t, func() {
		m := newMatch(2)
		id := m.Teams[0].Players[4].ID

		Convey("When a player's role and style change", func() {
			next, err := engine.UpdatePlayerAttributes(m, 0, id, model.RoleAllRounder, model.LegSpin)
			So(err, ShouldBeNil)
			p := next.Teams[0].Player(id)
			So(p.Role, ShouldEqual, model.RoleAllRounder)
			So(p.BowlingStyle, ShouldEqual, model.LegSpin)
		})

		Convey("When an unknown role is given", func() {
			_, err := engine.UpdatePlayerAttributes(m, 0, id, model.Role("Captain"), "")
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})
	})
}

func TestActivateImpactPlayer(t *testing.T) {
	Convey("Given a match with one over bowled", t, func() {
		m := bowl(newMatch(5), repeat(dot, 6)...)
		batting := m.Teams[0]
		sub, benched := batting.Players[12].ID, batting.Players[8].ID

		Convey("When the batting side brings on its impact player", func() {
			next, err := engine.ActivateImpactPlayer(m, 0, sub, benched)
			So(err, ShouldBeNil)
			side := next.Teams[0]

			Convey("Then the XI changes once", func() {
				So(side.ImpactPlayerUsed, ShouldBeTrue)
				So(side.InPlayingXI(sub), ShouldBeTrue)
				So(side.InPlayingXI(benched), ShouldBeFalse)
				So(side.Player(sub).Batting.Status, ShouldEqual, model.NotOut)
				So(side.Player(benched).Batting.Status, ShouldEqual, model.DidNotBat)

				_, err := engine.ActivateImpactPlayer(next, 0, batting.Players[13].ID, batting.Players[7].ID)
				So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
			})
		})

		Convey("When the replaced player is at the crease", func() {
			_, err := engine.ActivateImpactPlayer(m, 0, sub, m.Innings[0].OnStrike)
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})

		Convey("When the fielding side replaces the bowler who has bowled", func() {
			_, err := engine.ActivateImpactPlayer(m, 1, m.Teams[1].Players[12].ID, m.Innings[0].LastOverBowler)
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})
	})
}
