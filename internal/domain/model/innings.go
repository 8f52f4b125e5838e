package model

// Partnership is the running stand between the two batters at the crease.
type Partnership struct {
	Batsman1 string `json:"batsman1"`
	Batsman2 string `json:"batsman2"`
	Runs     int    `json:"runs"`
	Balls    int    `json:"balls"`
}

// FallOfWicket records the score at each dismissal.
type FallOfWicket struct {
	Wicket    int     `json:"wicket"`
	Score     int     `json:"score"`
	Over      float64 `json:"over"`
	PlayerOut string  `json:"player_out"`
}

// FieldPlacement puts a fielder at a named position for the current over.
type FieldPlacement struct {
	Position string `json:"position"`
	PlayerID string `json:"player_id"`
}

// Innings is one side's turn to bat. BattingTeam and BowlingTeam index
// Match.Teams.
type Innings struct {
	BattingTeam     int              `json:"batting_team"`
	BowlingTeam     int              `json:"bowling_team"`
	Score           int              `json:"score"`
	Wickets         int              `json:"wickets"`
	Overs           int              `json:"overs"`
	BallsThisOver   int              `json:"balls_this_over"`
	Timeline        []Ball           `json:"timeline"`
	FallOfWickets   []FallOfWicket   `json:"fall_of_wickets"`
	Partnership     Partnership      `json:"partnership"`
	OnStrike        string           `json:"on_strike"`
	NonStrike       string           `json:"non_strike"`
	CurrentBowler   string           `json:"current_bowler"`
	LastOverBowler  string           `json:"last_over_bowler"`
	FieldPlacements []FieldPlacement `json:"field_placements"`
	FreeHit         bool             `json:"free_hit"`
}

// OverMarker returns overs.balls in scorebook notation.
func (in Innings) OverMarker() float64 {
	return float64(in.Overs) + float64(in.BallsThisOver)/10
}

// LegalBalls returns the legal deliveries bowled so far.
func (in Innings) LegalBalls() int {
	return in.Overs*BallsPerOver + in.BallsThisOver
}

// SwapStrike exchanges the striker and non-striker.
func (in *Innings) SwapStrike() {
	in.OnStrike, in.NonStrike = in.NonStrike, in.OnStrike
}

func (in Innings) clone() Innings {
	in.Timeline = cloneSlice(in.Timeline)
	in.FallOfWickets = cloneSlice(in.FallOfWickets)
	in.FieldPlacements = cloneSlice(in.FieldPlacements)
	return in
}
