package model

import "fmt"

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// EventKind classifies a delivery.
type EventKind string

// Delivery kinds.
const (
	KindRun    EventKind = "run"
	KindWicket EventKind = "w"
	KindWide   EventKind = "wd"
	KindNoBall EventKind = "nb"
	KindLegBye EventKind = "lb"
	KindBye    EventKind = "b"
)

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	switch k {
	case KindRun, KindWicket, KindWide, KindNoBall, KindLegBye, KindBye:
		return true
	}
	return false
}

// Legal reports whether the delivery counts toward the over.
func (k EventKind) Legal() bool {
	return k != KindWide && k != KindNoBall
}

// WicketType names the mode of dismissal.
type WicketType string

// Dismissal modes.
const (
	Bowled    WicketType = "Bowled"
	Caught    WicketType = "Caught"
	LBW       WicketType = "LBW"
	RunOut    WicketType = "Run Out"
	Stumped   WicketType = "Stumped"
	HitWicket WicketType = "Hit Wicket"
)

// Valid reports whether w is a known dismissal mode.
func (w WicketType) Valid() bool {
	switch w {
	case Bowled, Caught, LBW, RunOut, Stumped, HitWicket:
		return true
	}
	return false
}

// BallEvent is a delivery as submitted by the scorer.
type BallEvent struct {
	Kind       EventKind  `json:"kind"`
	Runs       int        `json:"runs"`
	Extras     int        `json:"extras"`
	WicketType WicketType `json:"wicket_type,omitempty"`
	FielderID  string     `json:"fielder_id,omitempty"`
}

// Validate checks the shape of the event, independent of match state.
func (e BallEvent) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown delivery kind %q", ErrInvalidBall, e.Kind)
	}
	if e.Runs < 0 || e.Extras < 0 {
		return fmt.Errorf("%w: runs and extras must not be negative", ErrInvalidBall)
	}
	if e.Kind == KindWicket && !e.WicketType.Valid() {
		return fmt.Errorf("%w: unknown wicket type %q", ErrInvalidBall, e.WicketType)
	}
	return nil
}

// Ball is a delivery as recorded on an innings timeline. Once appended it is
// never edited.
type Ball struct {
	Kind       EventKind  `json:"kind"`
	Runs       int        `json:"runs"`
	Extras     int        `json:"extras"`
	IsWicket   bool       `json:"is_wicket"`
	WicketType WicketType `json:"wicket_type,omitempty"`
	FielderID  string     `json:"fielder_id,omitempty"`
	BatsmanID  string     `json:"batsman_id"`
	BowlerID   string     `json:"bowler_id"`
	Display    string     `json:"display"`
	// Over is the completed-overs.balls marker at the moment of delivery, e.g. 3.2.
	Over float64 `json:"over"`
	// FreeHit marks a delivery bowled under a free hit.
	FreeHit bool `json:"free_hit"`
	// Suppressed marks a dismissal voided by the free hit.
	Suppressed bool `json:"suppressed"`
}

// Event returns the submission that produced b.
func (b Ball) Event() BallEvent {
	return BallEvent{
		Kind:       b.Kind,
		Runs:       b.Runs,
		Extras:     b.Extras,
		WicketType: b.WicketType,
		FielderID:  b.FielderID,
	}
}

// Total is the runs the delivery added to the score.
func (b Ball) Total() int { return b.Runs + b.Extras }

// OverNumber is the zero-based over the ball belongs to.
func (b Ball) OverNumber() int { return int(b.Over) }
