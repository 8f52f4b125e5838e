package scenario_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	service "github.com/okian/crease/internal/app"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/scenario"
	"github.com/okian/crease/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

func scenarioYAML(innings string) []byte {
	var b strings.Builder
	b.WriteString("name: test\nsettings:\n  team_names: [Lions, Tigers]\n  overs_per_innings: 1\n")
	b.WriteString("  toss: {winner: Tigers, decision: bowl}\n  format: 2-overs\npool:\n")
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "  - {id: p%02d, name: Player %d}\n", i, i)
	}
	b.WriteString(innings)
	return []byte(b.String())
}

func TestParse(t *testing.T) {
	Convey("Given scenario files", t, func() {
		Convey("When the sample file is loaded", func() {
			sc, err := scenario.Load("testdata/two_overs.yaml")
			So(err, ShouldBeNil)
			So(sc.Name, ShouldEqual, "Two-over thriller")
			So(sc.Settings.OversPerInnings, ShouldEqual, 2)
			So(sc.Settings.TeamNames, ShouldResemble, [2]string{"Lions", "Tigers"})
			So(len(sc.Players()), ShouldEqual, 30)
			So(len(sc.Innings), ShouldEqual, 2)
		})

		Convey("When a file has no innings", func() {
			_, err := scenario.Parse(scenarioYAML("innings: []\n"))
			So(errors.Is(err, scenario.ErrInvalidScenario), ShouldBeTrue)
		})

		Convey("When a file has a bad token", func() {
			_, err := scenario.Parse(scenarioYAML("innings:\n  - overs:\n      - balls: [\"1\", \"7x\"]\n"))
			So(errors.Is(err, scenario.ErrInvalidScenario), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "innings 1 over 1 ball 2")
		})

		Convey("When a file has an unknown key", func() {
			_, err := scenario.Parse(scenarioYAML("innings:\n  - overs:\n      - balls: [\"1\"]\nweather: sunny\n"))
			So(errors.Is(err, scenario.ErrInvalidScenario), ShouldBeTrue)
		})

		Convey("When the settings are invalid", func() {
			raw := strings.Replace(string(scenarioYAML("innings:\n  - overs:\n      - balls: [\"1\"]\n")), "winner: Tigers", "winner: Bears", 1)
			_, err := scenario.Parse([]byte(raw))
			So(errors.Is(err, scenario.ErrInvalidScenario), ShouldBeTrue)
		})
	})
}

func TestRunner(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := service.New(service.WithWorkerCount(2), service.WithSeed(5))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		runner := scenario.NewRunner(svc)

		Convey("When the sample scenario is played", func() {
			sc, err := scenario.Load("testdata/two_overs.yaml")
			So(err, ShouldBeNil)
			m, err := runner.Play(ctx, sc)
			So(err, ShouldBeNil)

			Convey("Then the chase is won with a ball to spare", func() {
				So(m.Innings[0].Score, ShouldEqual, 24)
				So(m.Innings[0].Wickets, ShouldEqual, 1)
				So(m.Innings[1].Score, ShouldEqual, 29)
				So(m.Status, ShouldEqual, model.StatusFinished)
				So(m.Result, ShouldEqual, "Tigers won by 9 wickets.")
			})

			Convey("Then the scorecard lists both innings and the result", func() {
				var buf bytes.Buffer
				So(scenario.WriteScorecard(&buf, m), ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "Lions 24/1 (2.0 ov)")
				So(out, ShouldContainSubstring, "Tigers 29/1 (1.5 ov)")
				So(out, ShouldContainSubstring, "Tigers won by 9 wickets.")
			})

			Convey("Then undoing two balls reopens the chase", func() {
				back, err := runner.Undo(ctx, m.ID, 2)
				So(err, ShouldBeNil)
				So(back.Status, ShouldEqual, model.StatusInProgress)
				So(back.Innings[1].Score, ShouldEqual, 23)
				So(back.RatingsApplied, ShouldBeTrue)
			})
		})

		Convey("When a scenario keeps bowling after the match is over", func() {
			sc, err := scenario.Parse(scenarioYAML(`innings:
  - overs:
      - balls: ["0", "0", "0", "0", "0", "1"]
  - overs:
      - balls: ["4", "1"]
`))
			So(err, ShouldBeNil)
			m, err := runner.Play(ctx, sc)
			So(errors.Is(err, scenario.ErrOutOfStep), ShouldBeTrue)
			So(m.Result, ShouldEqual, "Tigers won by 10 wickets.")
		})

		Convey("When a scenario lists the second innings too early", func() {
			sc, err := scenario.Parse(scenarioYAML(`innings:
  - overs:
      - balls: ["0", "0", "0"]
  - overs:
      - balls: ["4"]
`))
			So(err, ShouldBeNil)
			_, err = runner.Play(ctx, sc)
			So(errors.Is(err, scenario.ErrOutOfStep), ShouldBeTrue)
		})

		Convey("When a tied match goes to a super over", func() {
			sc, err := scenario.Parse(scenarioYAML(`innings:
  - overs:
      - balls: ["1", "0", "0", "0", "0", "0"]
  - overs:
      - balls: ["0", "0", "0", "0", "0", "1"]
  - overs:
      - balls: ["6", "0", "0", "0", "0", "0"]
  - overs:
      - balls: ["1", "1", "1"]
`))
			So(err, ShouldBeNil)
			m, err := runner.Play(ctx, sc)
			So(err, ShouldBeNil)
			So(m.Status, ShouldEqual, model.StatusSuperOver)
			So(m.SuperOver.Innings[0].Score, ShouldEqual, 6)
			So(m.SuperOver.Innings[1].Score, ShouldEqual, 3)

			var buf bytes.Buffer
			So(scenario.WriteScorecard(&buf, m), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Super over: ")
		})
	})
}
