package scenario_test

import (
	"errors"
	"testing"

	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/scenario"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseToken(t *testing.T) {
	Convey("Delivery tokens are read in scorebook shorthand", t, func() {
		cases := []struct {
			tok  string
			want model.BallEvent
		}{
			{"0", model.BallEvent{Kind: model.KindRun}},
			{"4", model.BallEvent{Kind: model.KindRun, Runs: 4}},
			{"wd", model.BallEvent{Kind: model.KindWide, Extras: 1}},
			{"2wd", model.BallEvent{Kind: model.KindWide, Extras: 2}},
			{"nb", model.BallEvent{Kind: model.KindNoBall, Extras: 1}},
			{"nb4", model.BallEvent{Kind: model.KindNoBall, Runs: 4, Extras: 1}},
			{"1lb", model.BallEvent{Kind: model.KindLegBye, Extras: 1}},
			{"2b", model.BallEvent{Kind: model.KindBye, Extras: 2}},
			{"W", model.BallEvent{Kind: model.KindWicket, WicketType: model.Bowled}},
			{"W:Caught:p7", model.BallEvent{Kind: model.KindWicket, WicketType: model.Caught, FielderID: "p7"}},
			{"W:lbw", model.BallEvent{Kind: model.KindWicket, WicketType: model.LBW}},
			{"1W:Run-Out:p3", model.BallEvent{Kind: model.KindWicket, Runs: 1, WicketType: model.RunOut, FielderID: "p3"}},
			{"W:HitWicket", model.BallEvent{Kind: model.KindWicket, WicketType: model.HitWicket}},
		}
		for _, c := range cases {
			ev, err := scenario.ParseToken(c.tok)
			So(err, ShouldBeNil)
			So(ev, ShouldResemble, c.want)
		}
	})

	Convey("Malformed tokens are rejected", t, func() {
		for _, tok := range []string{"", "x", "-1", "W:Handled", "nbx", "W:Caught:p7:extra", "xW"} {
			_, err := scenario.ParseToken(tok)
			So(errors.Is(err, scenario.ErrBadToken), ShouldBeTrue)
		}
	})
}
