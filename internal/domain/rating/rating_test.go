package rating_test

import (
	"testing"

	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func batter(rating float64, runs, balls int) model.Player {
	return model.Player{
		ID:     "bat",
		Rating: rating,
		Batting: model.BattingRecord{
			Runs:       runs,
			BallsFaced: balls,
			StrikeRate: float64(runs) / float64(balls) * 100,
		},
	}
}

func bowler(rating float64, balls, runs, wickets, maidens int) model.Player {
	return model.Player{
		ID:     "bowl",
		Rating: rating,
		Bowling: model.BowlingRecord{
			BallsBowled:  balls,
			RunsConceded: runs,
			Wickets:      wickets,
			Maidens:      maidens,
			EconomyRate:  float64(runs) / (float64(balls) / 6),
		},
	}
}

func TestRate(t *testing.T) {
	Convey("Batting figures", t, func() {
		Convey("A quick century earns the run, century and strike-rate bonuses", func() {
			So(rating.Rate(batter(75, 120, 60)), ShouldAlmostEqual, 98, 1e-9)
		})

		Convey("A slow fifty is penalised once more than ten balls are faced", func() {
			So(rating.Rate(batter(75, 50, 70)), ShouldAlmostEqual, 75+5+5-(80-50.0/70*100)*0.02, 1e-9)
		})

		Convey("A slow start over few balls is not penalised", func() {
			So(rating.Rate(batter(75, 2, 10)), ShouldAlmostEqual, 75.2, 1e-9)
		})

		Convey("A player who did not face is unchanged", func() {
			So(rating.Rate(model.Player{Rating: 60}), ShouldEqual, 60.0)
		})
	})

	Convey("Bowling figures", t, func() {
		Convey("Economy bonuses need two overs", func() {
			So(rating.Rate(bowler(60, 6, 2, 1, 0)), ShouldAlmostEqual, 62, 1e-9)
			So(rating.Rate(bowler(60, 12, 6, 1, 1)), ShouldAlmostEqual, 60+2+2+1, 1e-9)
		})

		Convey("A three-wicket haul earns its bonus", func() {
			So(rating.Rate(bowler(60, 24, 32, 3, 0)), ShouldAlmostEqual, 60+6+5, 1e-9)
		})

		Convey("An expensive spell is penalised", func() {
			So(rating.Rate(bowler(75, 12, 28, 0, 0)), ShouldAlmostEqual, 73, 1e-9)
		})
	})

	Convey("Ratings stay within range", t, func() {
		So(rating.Rate(bowler(80, 24, 12, 5, 2)), ShouldEqual, 100.0)
		So(rating.Rate(bowler(2, 18, 60, 0, 0)), ShouldEqual, 1.0)
	})

	Convey("An unrated player starts from the default", t, func() {
		So(rating.Rate(model.Player{}), ShouldEqual, model.DefaultRating)
	})
}

func TestAdjust(t *testing.T) {
	Convey("Given a finished match", t, func() {
		star := batter(70, 60, 30)
		star.Role = model.RoleWicketKeeper
		quick := bowler(70, 24, 20, 3, 1)
		quick.Role = model.RoleBowler
		quick.BowlingStyle = model.RightArmFast
		m := model.Match{Teams: [2]model.Team{
			{Name: "Lions", Players: []model.Player{star}},
			{Name: "Tigers", Players: []model.Player{quick}},
		}}

		Convey("When ratings are adjusted", func() {
			rosters := rating.Adjust(m)

			Convey("Then each squad is returned under its team name", func() {
				So(rosters, ShouldContainKey, "Lions")
				So(rosters, ShouldContainKey, "Tigers")
				So(rosters["Lions"][0].Rating, ShouldAlmostEqual, 70+6+5+1, 1e-9)
				So(rosters["Tigers"][0].Rating, ShouldAlmostEqual, 70+6+5+2, 1e-9)
			})

			Convey("Then roles and styles are carried through", func() {
				So(rosters["Lions"][0].Role, ShouldEqual, model.RoleWicketKeeper)
				So(rosters["Tigers"][0].BowlingStyle, ShouldEqual, model.RightArmFast)
			})

			Convey("Then the match itself is not changed", func() {
				So(m.Teams[0].Players[0].Rating, ShouldEqual, 70.0)
			})

			Convey("Then adjusting the same match again gives the same squads", func() {
				So(rating.Adjust(m), ShouldResemble, rosters)
			})
		})
	})
}
