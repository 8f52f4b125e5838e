package scenario

import (
	"context"
	"errors"
	"fmt"

	service "github.com/okian/crease/internal/app"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/rules"
	"github.com/okian/crease/pkg/logger"
)

// Runner plays scenarios on a started service.
type Runner struct {
	svc    *service.Service
	logger logger.Logger
}

// NewRunner creates a Runner backed by svc.
func NewRunner(svc *service.Service) *Runner {
	return &Runner{svc: svc, logger: logger.Get().Named("scenario")}
}

// Play creates the scenario's match and bowls every listed delivery. The
// match is returned as it stood when play stopped, error or not.
func (r *Runner) Play(ctx context.Context, sc *Scenario) (model.Match, error) {
	m, err := r.svc.CreateMatch(ctx, sc.Settings, sc.Players())
	if err != nil {
		return model.Match{}, err
	}
	r.logger.Info(ctx, "playing scenario",
		logger.String("scenario", sc.Name),
		logger.String("match_id", m.ID),
	)

	for i, in := range sc.Innings {
		for j, o := range in.Overs {
			for k, tok := range o.Balls {
				at := fmt.Sprintf("innings %d over %d ball %d", i+1, j+1, k+1)
				if m.Status == model.StatusFinished {
					return m, fmt.Errorf("%w: %s: match already finished", ErrOutOfStep, at)
				}
				if got := inningsNumber(m); got != i {
					return m, fmt.Errorf("%w: %s listed while innings %d is in play", ErrOutOfStep, at, got+1)
				}
				if k == 0 || m.Active().Current().CurrentBowler == "" {
					if m, err = r.bowler(ctx, m, o.Bowler); err != nil {
						return m, fmt.Errorf("%s: %w", at, err)
					}
				}
				ev, err := ParseToken(tok)
				if err != nil {
					return m, fmt.Errorf("%s: %w", at, err)
				}
				next, err := r.svc.SubmitBall(ctx, m.ID, fmt.Sprintf("%s/%d/%d/%d", m.ID, i, j, k), ev)
				if err != nil {
					return m, fmt.Errorf("%s (%s): %w", at, tok, err)
				}
				m = next
			}
		}
	}
	return m, nil
}

// Undo reverts up to n deliveries of a match, stopping early when nothing
// is left to undo.
func (r *Runner) Undo(ctx context.Context, matchID string, n int) (model.Match, error) {
	m, err := r.svc.Match(ctx, matchID)
	if err != nil {
		return m, err
	}
	for i := 0; i < n; i++ {
		next, err := r.svc.Undo(ctx, matchID)
		if errors.Is(err, model.ErrNothingToUndo) {
			break
		}
		if err != nil {
			return m, err
		}
		m = next
	}
	return m, nil
}

// bowler makes sure someone is bowling the next ball. A named bowler is
// selected when not already on; otherwise the current bowler carries on, or
// the last available bowler in the XI takes the new over.
func (r *Runner) bowler(ctx context.Context, m model.Match, want string) (model.Match, error) {
	in := m.Active().Current()
	if want != "" {
		if in.CurrentBowler == want {
			return m, nil
		}
		return r.svc.SelectBowler(ctx, m.ID, want)
	}
	if in.CurrentBowler != "" {
		return m, nil
	}
	available := rules.AvailableBowlers(m)
	if len(available) == 0 {
		return m, fmt.Errorf("%w: no bowler available", model.ErrNoBowler)
	}
	return r.svc.SelectBowler(ctx, m.ID, available[len(available)-1].ID)
}

// inningsNumber is the zero-based innings in play, counting super over
// innings after the main two.
func inningsNumber(m model.Match) int {
	if m.Status == model.StatusSuperOver && m.SuperOver != nil {
		return 2 + m.SuperOver.CurrentInnings
	}
	return m.CurrentInnings
}
