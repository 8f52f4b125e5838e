// Package engine applies deliveries to a match.
//
// Apply is a pure transform: it clones its input, folds one delivery into the
// clone and returns it. On error the input is returned untouched, so a ball is
// either applied in full or not at all. Replaying a timeline through Apply is
// the only way state is ever reconstructed.
package engine

import (
	"fmt"
	"strconv"

	"github.com/okian/crease/internal/domain/model"
)

const fallbackFielder = "Fielder"

// Apply folds one delivery into m.
func Apply(m model.Match, ev model.BallEvent) (model.Match, error) {
	if err := ev.Validate(); err != nil {
		return m, err
	}
	next := m.Clone()
	if err := apply(&next, ev); err != nil {
		return m, err
	}
	return next, nil
}

func apply(m *model.Match, ev model.BallEvent) error {
	switch m.Status {
	case model.StatusFinished:
		return model.ErrMatchFinished
	case model.StatusSuperOver:
		if m.SuperOver == nil {
			return fmt.Errorf("%w: tied match has no super over", model.ErrInvalidState)
		}
		if err := apply(m.SuperOver, ev); err != nil {
			return err
		}
		if m.SuperOver.Status == model.StatusFinished {
			m.Status = model.StatusFinished
			m.Result = m.SuperOver.Result
		}
		return nil
	}

	in := m.Current()
	if in == nil {
		return fmt.Errorf("%w: no innings in play", model.ErrInvalidState)
	}
	if in.CurrentBowler == "" {
		return model.ErrNoBowler
	}
	batting, bowling := m.Batting(in), m.Bowling(in)
	bowler := bowling.Player(in.CurrentBowler)
	if bowler == nil {
		return fmt.Errorf("%w: bowler %s is not in %s", model.ErrInvalidSelection, in.CurrentBowler, bowling.Name)
	}
	striker := batting.Player(in.OnStrike)
	if striker == nil {
		return model.ErrNoStriker
	}

	legal := ev.Kind.Legal()
	freeHit := in.FreeHit
	ball := model.Ball{
		Kind:       ev.Kind,
		Runs:       ev.Runs,
		Extras:     ev.Extras,
		IsWicket:   ev.Kind == model.KindWicket,
		WicketType: ev.WicketType,
		FielderID:  ev.FielderID,
		BatsmanID:  in.OnStrike,
		BowlerID:   in.CurrentBowler,
		Display:    display(ev),
		Over:       in.OverMarker(),
		FreeHit:    freeHit,
	}

	switch {
	case ev.Kind == model.KindNoBall:
		in.FreeHit = true
	case legal:
		in.FreeHit = false
	}

	total := ev.Runs + ev.Extras
	in.Score += total
	in.Partnership.Runs += total
	bowler.Bowling.RunsConceded += total
	switch ev.Kind {
	case model.KindWide:
		bowler.Bowling.Wides++
	case model.KindNoBall:
		bowler.Bowling.NoBalls++
	}
	if legal {
		bowler.Bowling.BallsBowled++
		in.BallsThisOver++
		striker.Batting.BallsFaced++
		in.Partnership.Balls++
	}
	if creditsBatter(ev.Kind) {
		striker.Batting.Runs += ev.Runs
		switch ev.Runs {
		case 4:
			striker.Batting.Fours++
		case 6:
			striker.Batting.Sixes++
		}
	}

	if ball.IsWicket {
		if freeHit && ev.WicketType != model.RunOut {
			ball.Suppressed = true
		} else {
			dismiss(m, in, striker, bowler, ev)
		}
	}
	in.Timeline = append(in.Timeline, ball)

	if legal && in.OnStrike != "" && completedRuns(ev)%2 == 1 {
		in.SwapStrike()
	}
	if in.BallsThisOver == model.BallsPerOver {
		endOver(m, in, bowler)
	}
	refreshRates(m)
	return settle(m)
}

// dismiss records a wicket against the striker and brings in the next batter.
func dismiss(m *model.Match, in *model.Innings, striker, bowler *model.Player, ev model.BallEvent) {
	batting, bowling := m.Batting(in), m.Bowling(in)
	in.Wickets++
	striker.Batting.Status = model.Out

	fielderName := fallbackFielder
	fielder := bowling.Player(ev.FielderID)
	if fielder != nil {
		fielderName = fielder.Name
	}
	switch ev.WicketType {
	case model.Caught:
		striker.Batting.Dismissal = fmt.Sprintf("c. %s b. %s", fielderName, bowler.Name)
		bowler.Bowling.Wickets++
		if fielder != nil {
			fielder.Fielding.Catches++
		}
	case model.RunOut:
		striker.Batting.Dismissal = fmt.Sprintf("run out (%s)", fielderName)
		if fielder != nil {
			fielder.Fielding.RunOuts++
		}
	case model.Stumped:
		striker.Batting.Dismissal = fmt.Sprintf("st. %s b. %s", fielderName, bowler.Name)
		bowler.Bowling.Wickets++
		if fielder != nil {
			fielder.Fielding.Stumpings++
		}
	default:
		striker.Batting.Dismissal = fmt.Sprintf("%s b. %s", ev.WicketType, bowler.Name)
		bowler.Bowling.Wickets++
	}

	in.FallOfWickets = append(in.FallOfWickets, model.FallOfWicket{
		Wicket:    in.Wickets,
		Score:     in.Score,
		Over:      in.OverMarker(),
		PlayerOut: striker.Name,
	})

	if in.Wickets >= m.WicketCap(*in) {
		in.OnStrike = ""
		return
	}
	in.OnStrike = nextBatter(*batting, in.NonStrike)
	in.Partnership = model.Partnership{Batsman1: in.OnStrike, Batsman2: in.NonStrike}
}

// nextBatter returns the first not-out XI member other than the non-striker.
func nextBatter(team model.Team, nonStriker string) string {
	for _, p := range team.PlayingXI() {
		if p.Batting.Status == model.NotOut && p.ID != nonStriker {
			return p.ID
		}
	}
	return ""
}

// endOver rolls the innings into the next over after the sixth legal ball.
func endOver(m *model.Match, in *model.Innings, bowler *model.Player) {
	completed := in.Overs
	in.Overs++
	in.BallsThisOver = 0
	if in.OnStrike != "" {
		in.SwapStrike()
	}
	if maiden(in.Timeline, completed) {
		bowler.Bowling.Maidens++
	}
	in.LastOverBowler = in.CurrentBowler
	in.FieldPlacements = nil
	if in.Overs < m.OversPerInnings {
		in.CurrentBowler = ""
	}
}

// maiden reports whether every delivery of the given over, legal or not,
// conceded nothing.
func maiden(timeline []model.Ball, over int) bool {
	legal := 0
	for i := len(timeline) - 1; i >= 0; i-- {
		b := timeline[i]
		if b.OverNumber() != over {
			break
		}
		if b.Total() > 0 {
			return false
		}
		if b.Kind.Legal() {
			legal++
		}
	}
	return legal == model.BallsPerOver
}

func refreshRates(m *model.Match) {
	for t := range m.Teams {
		for i := range m.Teams[t].Players {
			p := &m.Teams[t].Players[i]
			if p.Batting.BallsFaced > 0 {
				p.Batting.StrikeRate = float64(p.Batting.Runs) / float64(p.Batting.BallsFaced) * 100
			}
			if p.Bowling.BallsBowled > 0 {
				p.Bowling.EconomyRate = float64(p.Bowling.RunsConceded) / (float64(p.Bowling.BallsBowled) / model.BallsPerOver)
			}
		}
	}
}

// creditsBatter reports whether runs on this kind of delivery came off the bat.
func creditsBatter(k model.EventKind) bool {
	switch k {
	case model.KindRun, model.KindWicket, model.KindNoBall:
		return true
	}
	return false
}

// completedRuns is what the batters ran, which decides strike rotation.
func completedRuns(ev model.BallEvent) int {
	switch ev.Kind {
	case model.KindBye, model.KindLegBye:
		return ev.Extras
	}
	return ev.Runs
}

func display(ev model.BallEvent) string {
	switch ev.Kind {
	case model.KindWicket:
		return "W"
	case model.KindWide:
		return "wd"
	case model.KindNoBall:
		return "nb"
	case model.KindLegBye:
		return strconv.Itoa(ev.Extras) + "lb"
	case model.KindBye:
		return strconv.Itoa(ev.Extras) + "b"
	}
	return strconv.Itoa(ev.Runs)
}
