// Package scheduler drives the account rotation and the poll cycle.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"redwatch/internal/bookmark"
	"redwatch/internal/extract"
	"redwatch/internal/health"
	"redwatch/internal/metrics"
	"redwatch/internal/model"
	"redwatch/internal/search"
)

// ErrAllAccountsDisabled is returned by Run when no active account remains in
// the rotation pool. It is the loop's designed end state, not a per-cycle
// fault.
var ErrAllAccountsDisabled = errors.New("all accounts disabled")

// Searcher is the interface for the recent-search collaborator.
type Searcher interface {
	Search(ctx context.Context, bearerToken, query string, startTime time.Time, sinceID string) (model.Batch, error)
}

// Alerter is the interface for the external notifier. Both calls are
// fire-and-forget: delivery failures are the notifier's concern.
type Alerter interface {
	TokenFound(ctx context.Context, token, permalink string)
	AccountDisabled(ctx context.Context, account, contact string, cause error)
}

// BatchLogger records every processed batch in the append-only log sink.
type BatchLogger interface {
	AppendBatch(ctx context.Context, account string, items []model.Item) error
}

// Scheduler rotates through healthy accounts, polls the search API once per
// cycle, and feeds extracted passwords to the alerter. Cycles are strictly
// serialized: the tracker and the bookmark assume a single writer.
type Scheduler struct {
	tracker  *health.Tracker
	searcher Searcher
	alerter  Alerter
	book     *bookmark.Book
	batchLog BatchLogger
	log      *slog.Logger
	query    string
	interval time.Duration
	current  int
}

// New creates a Scheduler polling for query every interval.
func New(query string, interval time.Duration, tracker *health.Tracker, searcher Searcher, alerter Alerter, book *bookmark.Book, batchLog BatchLogger, log *slog.Logger) *Scheduler {
	return &Scheduler{
		tracker:  tracker,
		searcher: searcher,
		alerter:  alerter,
		book:     book,
		batchLog: batchLog,
		log:      log,
		query:    query,
		interval: interval,
		current:  -1,
	}
}

// Run executes poll cycles until ctx is cancelled, or until every account has
// been disabled, in which case it returns ErrAllAccountsDisabled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		idx := s.tracker.NextActive(s.current)
		if idx == health.None {
			s.log.Error("all accounts disabled, stopping")
			return ErrAllAccountsDisabled
		}
		s.current = idx

		s.cycle(ctx, idx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context, idx int) {
	acct := s.tracker.Account(idx)
	s.log.Debug("polling", "account", acct.Name)

	floor := time.Now().UTC().Add(-s.window())
	sinceID, _ := s.book.Last()

	batch, err := s.searcher.Search(ctx, acct.BearerToken, s.query, floor, sinceID)
	outcome := classify(err)

	metrics.Cycles.Inc()
	metrics.PollOutcomes.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case model.OutcomeSuccess:
		if recovered := s.tracker.RecordSuccess(idx); recovered {
			s.log.Info("account recovered", "account", acct.Name)
		}
		s.processBatch(ctx, acct, batch)
	case model.OutcomeRateLimited:
		s.tracker.RecordRateLimited(idx)
		s.log.Info("quota exhausted", "account", acct.Name)
	case model.OutcomeFailure:
		s.log.Error("poll failed", "account", acct.Name, "error", err)
		if disabled := s.tracker.RecordFailure(idx); disabled {
			s.log.Error("account disabled", "account", acct.Name)
			metrics.AccountsDisabled.Inc()
			s.alerter.AccountDisabled(ctx, acct.Name, acct.Contact, err)
		}
	}
}

// window sizes the rolling time floor so that a full rotation of the active
// pool still covers every post: active accounts × polling interval. Together
// with the bookmark id floor it bounds the query from below on both axes.
func (s *Scheduler) window() time.Duration {
	n := s.tracker.ActiveCount()
	if n < 1 {
		n = 1
	}
	return time.Duration(n) * s.interval
}

func classify(err error) model.Outcome {
	switch {
	case err == nil:
		return model.OutcomeSuccess
	case errors.Is(err, search.ErrQuotaExhausted):
		return model.OutcomeRateLimited
	default:
		return model.OutcomeFailure
	}
}

func (s *Scheduler) processBatch(ctx context.Context, acct model.Account, batch model.Batch) {
	if len(batch.Items) == 0 {
		s.log.Debug("no new posts", "account", acct.Name)
		return
	}
	s.log.Info("new posts", "account", acct.Name, "count", len(batch.Items))

	if err := s.batchLog.AppendBatch(ctx, acct.Name, batch.Items); err != nil {
		s.log.Error("append batch log", "account", acct.Name, "error", err)
	}

	if batch.NewestID != "" {
		if err := s.book.Advance(ctx, batch.NewestID); err != nil {
			// The in-memory bookmark still advanced; keep polling.
			s.log.Error("advance bookmark", "newest_id", batch.NewestID, "error", err)
		}
	}

	// The API returns newest first; walk backwards so that alerts fire in
	// chronological order when one batch contains several passwords.
	for i := len(batch.Items) - 1; i >= 0; i-- {
		item := batch.Items[i]
		token, ok := extract.Password(item.Text)
		if !ok {
			continue
		}
		s.log.Info("password found", "token", token, "tweet_id", item.ID)
		metrics.TokensFound.Inc()
		s.alerter.TokenFound(ctx, token, search.Permalink(item.ID))
	}
}
