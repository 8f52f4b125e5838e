// Package service hosts matches: it loads and saves snapshots, checks the
// rules and runs every change to a match on the worker that owns it.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/crease/internal/adapters/mq/worker"
	"github.com/okian/crease/internal/adapters/repository"
	"github.com/okian/crease/internal/domain/dedupe"
	"github.com/okian/crease/internal/domain/engine"
	"github.com/okian/crease/internal/domain/factory"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/rating"
	"github.com/okian/crease/internal/domain/rules"
	"github.com/okian/crease/internal/domain/situation"
	"github.com/okian/crease/internal/domain/undo"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Service runs matches against a snapshot store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	factory *factory.Factory
	pool    *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	seed        int64

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  dedupe.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the components not supplied as options and starts the
// workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using memory store")
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	if s.factory == nil {
		var opts []factory.Option
		if s.seed != 0 {
			opts = append(opts, factory.WithSeed(s.seed))
		}
		s.factory = factory.New(opts...)
	}
	s.pool = worker.NewPool(s.workerCount, s.queueSize)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "match service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping match service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "store close", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "match service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// CreateMatch builds and stores a new match. Teams with a saved roster play
// with it; the others draw their squads from pool.
func (s *Service) CreateMatch(ctx context.Context, settings model.Settings, pool []model.Player) (model.Match, error) {
	if err := s.ready(); err != nil {
		return model.Match{}, err
	}
	saved, err := repository.Rosters(ctx, s.store, settings.TeamNames[0], settings.TeamNames[1])
	if err != nil {
		return model.Match{}, fmt.Errorf("load rosters: %w", err)
	}
	m, err := s.factory.Create(settings, pool, saved)
	if err != nil {
		return model.Match{}, err
	}
	err = s.pool.Do(ctx, m.ID, "create", func(ctx context.Context) error {
		return s.store.SaveMatch(ctx, m)
	})
	if err != nil {
		return model.Match{}, fmt.Errorf("save match %s: %w", m.ID, err)
	}

	metrics.RecordMatchCreated()
	s.logger.Info(ctx, "match created",
		logger.String("match_id", m.ID),
		logger.String("teams", m.Teams[0].Name+" v "+m.Teams[1].Name),
		logger.Int("overs", m.OversPerInnings),
		logger.Int("saved_rosters", len(saved)),
	)
	return m, nil
}

// Match returns the stored snapshot of a match.
func (s *Service) Match(ctx context.Context, matchID string) (model.Match, error) {
	if err := s.ready(); err != nil {
		return model.Match{}, err
	}
	return s.store.GetMatch(ctx, matchID)
}

// SelectBowler picks the bowler for the next over.
func (s *Service) SelectBowler(ctx context.Context, matchID, bowlerID string) (model.Match, error) {
	return s.mutate(ctx, matchID, "select_bowler", func(m model.Match) (model.Match, error) {
		if v := rules.ValidateBowler(m, bowlerID); len(v) > 0 {
			return m, s.rejected(ctx, matchID, v)
		}
		return engine.SelectBowler(m, bowlerID)
	})
}

// SelectBatsman places a batter at one end. A dismissed batter is accepted
// here and blocks the next delivery until replaced.
func (s *Service) SelectBatsman(ctx context.Context, matchID string, end engine.End, batsmanID string) (model.Match, error) {
	return s.mutate(ctx, matchID, "select_batsman", func(m model.Match) (model.Match, error) {
		return engine.SelectBatsman(m, end, batsmanID)
	})
}

// SubmitBall records a delivery. A requestID already seen returns the stored
// match without bowling again; an empty requestID is never deduplicated. The
// id is checked on the match's worker, so a retry always sees the outcome of
// the attempt before it.
func (s *Service) SubmitBall(ctx context.Context, matchID, requestID string, ev model.BallEvent) (model.Match, error) {
	recorded := false
	return s.command(ctx, matchID, "ball", func(m model.Match) (model.Match, error) {
		if requestID != "" {
			if s.deduper.SeenAndRecord(ctx, requestID) {
				metrics.RecordDuplicateCommand()
				s.logger.Debug(ctx, "duplicate delivery skipped",
					logger.String("match_id", matchID),
					logger.String("request_id", requestID),
				)
				return m, errUnchanged
			}
			recorded = true
		}
		return s.bowl(ctx, m, ev)
	}, func() {
		// Only a delivery that was not saved may be retried under the same id.
		if recorded {
			s.deduper.Unrecord(ctx, requestID)
		}
	})
}

func (s *Service) bowl(ctx context.Context, m model.Match, ev model.BallEvent) (model.Match, error) {
	if err := ev.Validate(); err != nil {
		return m, err
	}
	if v := deliveryViolations(m); len(v) > 0 {
		return m, s.rejected(ctx, m.ID, v)
	}
	next, err := engine.Apply(m, ev)
	if err != nil {
		return m, err
	}

	history := next.History()
	ball := history[len(history)-1]
	metrics.RecordDelivery(string(ball.Kind))
	switch {
	case ball.Suppressed:
		metrics.RecordSuppressedWicket()
	case ball.IsWicket:
		metrics.RecordWicket(string(ball.WicketType))
	}
	s.logger.Debug(ctx, "delivery recorded",
		logger.String("match_id", m.ID),
		logger.String("display", ball.Display),
		logger.Float64("over", ball.Over),
		logger.String("bowler_id", ball.BowlerID),
		logger.String("batsman_id", ball.BatsmanID),
	)

	if m.Status != model.StatusSuperOver && next.Status == model.StatusSuperOver {
		metrics.RecordSuperOver()
		s.logger.Info(ctx, "super over started", logger.String("match_id", m.ID))
	}
	if next.Status == model.StatusFinished && !next.RatingsApplied {
		if next, err = s.finish(ctx, next); err != nil {
			return m, err
		}
	}
	return next, nil
}

// finish stores the rated rosters the first time a match ends. Undoing into a
// finished match again leaves the stored ratings alone.
func (s *Service) finish(ctx context.Context, m model.Match) (model.Match, error) {
	rosters := rating.Adjust(m)
	rated := 0
	for _, team := range m.Teams {
		players := rosters[team.Name]
		if err := s.store.SaveRoster(ctx, team.Name, players); err != nil {
			return m, fmt.Errorf("save roster %s: %w", team.Name, err)
		}
		rated += len(players)
	}
	m.RatingsApplied = true

	metrics.RecordRatingsAdjusted(rated)
	metrics.RecordMatchFinished(outcome(m))
	s.logger.Info(ctx, "match finished",
		logger.String("match_id", m.ID),
		logger.String("result", m.Result),
		logger.Int("players_rated", rated),
	)
	return m, nil
}

// Undo reverts the most recent delivery.
func (s *Service) Undo(ctx context.Context, matchID string) (model.Match, error) {
	return s.mutate(ctx, matchID, "undo", func(m model.Match) (model.Match, error) {
		start := time.Now()
		next, err := undo.Undo(m)
		if err != nil {
			return m, err
		}
		replayed := len(next.History())
		metrics.RecordUndo(float64(time.Since(start).Microseconds())/1000, replayed)
		s.logger.Info(ctx, "delivery undone",
			logger.String("match_id", matchID),
			logger.Int("replayed", replayed),
		)
		return next, nil
	})
}

// SetFieldPlacements sets the field for the current over.
func (s *Service) SetFieldPlacements(ctx context.Context, matchID string, placements []model.FieldPlacement) (model.Match, error) {
	return s.mutate(ctx, matchID, "field", func(m model.Match) (model.Match, error) {
		return engine.SetFieldPlacements(m, placements)
	})
}

// UpdatePlayerAttributes changes a squad member's role and bowling style.
func (s *Service) UpdatePlayerAttributes(ctx context.Context, matchID string, team int, playerID string, role model.Role, style model.BowlingStyle) (model.Match, error) {
	return s.mutate(ctx, matchID, "player_attributes", func(m model.Match) (model.Match, error) {
		return engine.UpdatePlayerAttributes(m, team, playerID, role, style)
	})
}

// ActivateImpactPlayer swaps a substitute into a team's playing XI.
func (s *Service) ActivateImpactPlayer(ctx context.Context, matchID string, team int, substituteID, replacedID string) (model.Match, error) {
	return s.mutate(ctx, matchID, "impact_player", func(m model.Match) (model.Match, error) {
		next, err := engine.ActivateImpactPlayer(m, team, substituteID, replacedID)
		if err == nil {
			s.logger.Info(ctx, "impact player activated",
				logger.String("match_id", matchID),
				logger.String("substitute_id", substituteID),
				logger.String("replaced_id", replacedID),
			)
		}
		return next, err
	})
}

// Validate lists the rules the next delivery would break.
func (s *Service) Validate(ctx context.Context, matchID string) ([]string, error) {
	m, err := s.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return rules.Validate(m), nil
}

// Situation summarises the innings in play.
func (s *Service) Situation(ctx context.Context, matchID string) (situation.Situation, error) {
	m, err := s.Match(ctx, matchID)
	if err != nil {
		return situation.Situation{}, err
	}
	sit, ok := situation.Of(m)
	if !ok {
		return situation.Situation{}, fmt.Errorf("%w: no innings in play", model.ErrInvalidState)
	}
	return sit, nil
}

// AvailableBowlers lists who may bowl the next over.
func (s *Service) AvailableBowlers(ctx context.Context, matchID string) ([]model.Player, error) {
	m, err := s.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return rules.AvailableBowlers(m), nil
}

// Roster returns the saved squad of a team.
func (s *Service) Roster(ctx context.Context, team string) ([]model.Player, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.GetRoster(ctx, team)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}
	stats["pending"] = s.pool.Pending(ctx)
	stats["requestIDs"] = s.deduper.Size()
	if ids, err := s.store.ListMatches(ctx); err == nil {
		stats["matches"] = len(ids)
	}
	return stats
}

// mutate loads a match, transforms it and saves the result on the worker
// that owns the match. A failed transform leaves the stored match as it was.
func (s *Service) mutate(ctx context.Context, matchID, op string, fn func(model.Match) (model.Match, error)) (model.Match, error) {
	return s.command(ctx, matchID, op, fn, nil)
}

// command is mutate with a release hook that runs on the worker whenever the
// command ends without saving. A command whose caller has already gone is
// skipped, and fn may return errUnchanged to succeed without a save.
func (s *Service) command(ctx context.Context, matchID, op string, fn func(model.Match) (model.Match, error), release func()) (model.Match, error) {
	if err := s.ready(); err != nil {
		return model.Match{}, err
	}
	var out model.Match
	err := s.pool.Do(ctx, matchID, op, func(workerCtx context.Context) error {
		committed := false
		defer func() {
			if !committed && release != nil {
				release()
			}
		}()
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := s.store.GetMatch(workerCtx, matchID)
		if err != nil {
			return err
		}
		next, err := fn(m)
		if errors.Is(err, errUnchanged) {
			committed = true
			out = m
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.store.SaveMatch(workerCtx, next); err != nil {
			return fmt.Errorf("save match %s: %w", matchID, err)
		}
		committed = true
		out = next
		return nil
	})
	if err != nil {
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			s.logger.Warn(ctx, "match command failed",
				logger.String("match_id", matchID),
				logger.String("op", op),
				logger.Error(err),
			)
		}
		return model.Match{}, err
	}
	return out, nil
}

// deliveryViolations is rules.Validate, except that a bowler part way through
// an over they began within their quota may finish it. Quotas below one over
// would otherwise stop the over after a few balls.
func deliveryViolations(m model.Match) []string {
	violations := rules.Validate(m)
	active := m.Active()
	in := active.Current()
	if in == nil || in.BallsThisOver == 0 {
		return violations
	}
	bowler := active.Bowling(in).Player(in.CurrentBowler)
	if bowler == nil || float64(bowler.Overs()) >= rules.Quota(active.OversPerInnings) {
		return violations
	}
	var out []string
	for _, v := range violations {
		if !rules.IsQuota(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s *Service) rejected(ctx context.Context, matchID string, violations []string) error {
	for _, v := range violations {
		metrics.RecordRuleViolation(rules.Name(v))
	}
	s.logger.Debug(ctx, "action rejected",
		logger.String("match_id", matchID),
		logger.Any("violations", violations),
	)
	return &model.ValidationError{Violations: violations}
}

func outcome(m model.Match) string {
	switch {
	case m.SuperOver == nil:
		return "result"
	case m.SuperOver.Result == "Super Over tied.":
		return "super_over_tied"
	default:
		return "super_over"
	}
}
