package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/crease/internal/domain/model"
)

var wicketTypes = map[string]model.WicketType{
	"bowled":    model.Bowled,
	"caught":    model.Caught,
	"lbw":       model.LBW,
	"runout":    model.RunOut,
	"stumped":   model.Stumped,
	"hitwicket": model.HitWicket,
}

// ParseToken reads one delivery in scorebook shorthand:
//
//	0..6          runs off the bat
//	wd, 3wd       wide, with the total extras when more than one
//	nb, nb4       no-ball, with runs off the bat
//	2lb, 1b       leg byes and byes
//	W             bowled
//	W:Caught:p7   dismissal type and optional fielder id
//	1W:RunOut:p3  runs completed before a run out
func ParseToken(tok string) (model.BallEvent, error) {
	t := strings.TrimSpace(tok)
	lower := strings.ToLower(t)

	switch {
	case t == "":
		return model.BallEvent{}, fmt.Errorf("%w: empty token", ErrBadToken)
	case strings.Contains(t, "W") && !strings.HasSuffix(lower, "wd"):
		return parseWicket(t)
	case strings.HasSuffix(lower, "wd"):
		n, err := count(lower[:len(lower)-2], 1)
		return model.BallEvent{Kind: model.KindWide, Extras: n}, wrap(tok, err)
	case strings.HasPrefix(lower, "nb"):
		n, err := count(lower[2:], 0)
		return model.BallEvent{Kind: model.KindNoBall, Runs: n, Extras: 1}, wrap(tok, err)
	case strings.HasSuffix(lower, "lb"):
		n, err := count(lower[:len(lower)-2], 1)
		return model.BallEvent{Kind: model.KindLegBye, Extras: n}, wrap(tok, err)
	case strings.HasSuffix(lower, "b"):
		n, err := count(lower[:len(lower)-1], 1)
		return model.BallEvent{Kind: model.KindBye, Extras: n}, wrap(tok, err)
	default:
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return model.BallEvent{}, fmt.Errorf("%w: %q", ErrBadToken, tok)
		}
		return model.BallEvent{Kind: model.KindRun, Runs: n}, nil
	}
}

func parseWicket(t string) (model.BallEvent, error) {
	parts := strings.Split(t, ":")
	head := parts[0]
	if !strings.HasSuffix(head, "W") {
		return model.BallEvent{}, fmt.Errorf("%w: %q", ErrBadToken, t)
	}
	runs, err := count(strings.TrimSuffix(head, "W"), 0)
	if err != nil {
		return model.BallEvent{}, wrap(t, err)
	}
	ev := model.BallEvent{Kind: model.KindWicket, Runs: runs, WicketType: model.Bowled}
	if len(parts) > 1 {
		key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(parts[1]))
		wt, ok := wicketTypes[key]
		if !ok {
			return model.BallEvent{}, fmt.Errorf("%w: unknown dismissal %q", ErrBadToken, parts[1])
		}
		ev.WicketType = wt
	}
	if len(parts) > 2 {
		ev.FielderID = parts[2]
	}
	if len(parts) > 3 {
		return model.BallEvent{}, fmt.Errorf("%w: %q", ErrBadToken, t)
	}
	return ev, nil
}

// count parses an optional non-negative number, returning def when s is empty.
func count(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad count %q", s)
	}
	return n, nil
}

func wrap(tok string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %q: %v", ErrBadToken, tok, err)
}
