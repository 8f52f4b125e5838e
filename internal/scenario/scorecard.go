package scenario

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/okian/crease/internal/domain/model"
)

// WriteScorecard prints the batting and bowling figures of every innings,
// the super over included, followed by the result.
func WriteScorecard(w io.Writer, m model.Match) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeInnings(tw, m, "")
	if m.SuperOver != nil {
		writeInnings(tw, *m.SuperOver, "Super over: ")
	}
	if m.Result != "" {
		fmt.Fprintf(tw, "\n%s\n", m.Result)
	}
	return tw.Flush()
}

// WriteRatings prints a team's saved roster with ratings.
func WriteRatings(w io.Writer, team string, players []model.Player) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\n%s ratings\n", team)
	for _, p := range players {
		fmt.Fprintf(tw, "  %s\t%s\t%.1f\n", p.Name, p.Role, p.Rating)
	}
	return tw.Flush()
}

func writeInnings(w io.Writer, m model.Match, label string) {
	for _, in := range m.Innings {
		batting, bowling := m.Teams[in.BattingTeam], m.Teams[in.BowlingTeam]
		fmt.Fprintf(w, "\n%s%s %d/%d (%s ov)\n", label, batting.Name, in.Score, in.Wickets, overs(in.OverMarker()))

		fmt.Fprintln(w, "  Batter\t\tR\tB\t4s\t6s\tSR")
		for _, p := range batting.PlayingXI() {
			if p.Batting.Status == model.DidNotBat {
				continue
			}
			how := string(p.Batting.Status)
			if p.Batting.Dismissal != "" {
				how = p.Batting.Dismissal
			}
			fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%d\t%d\t%.2f\n", p.Name, how,
				p.Batting.Runs, p.Batting.BallsFaced, p.Batting.Fours, p.Batting.Sixes, p.Batting.StrikeRate)
		}

		fmt.Fprintln(w, "  Bowler\t\tO\tM\tR\tW\tEcon")
		for _, p := range bowling.Players {
			b := p.Bowling
			if b.BallsBowled == 0 && b.Wides == 0 && b.NoBalls == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s\t\t%s\t%d\t%d\t%d\t%.2f\n", p.Name,
				overs(float64(b.BallsBowled/model.BallsPerOver)+float64(b.BallsBowled%model.BallsPerOver)/10),
				b.Maidens, b.RunsConceded, b.Wickets, b.EconomyRate)
		}

		if len(in.FallOfWickets) > 0 {
			fmt.Fprint(w, "  FoW:")
			for _, f := range in.FallOfWickets {
				fmt.Fprintf(w, " %d-%d (%s)", f.Wicket, f.Score, overs(f.Over))
			}
			fmt.Fprintln(w)
		}
	}
}

func overs(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
