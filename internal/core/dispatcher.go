package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/metrics"
)

// Dispatcher consumes observation events from all configured sources through
// a bounded work queue and routes each account through the judgment pipeline.
// Duplicate events for the same account across sources are expected; the
// caches absorb them, the dispatcher itself does not deduplicate.
type Dispatcher struct {
	judge     *ClassificationJudge
	resolver  *RelationshipResolver
	policy    PolicyConfig
	graph     SocialGraph
	notifier  Notifier
	journal   Journal
	allowlist Allowlist
	logger    *zap.Logger
	queue     chan AccountSnapshot
	workers   int
}

// NewDispatcher creates a new dispatcher. journal may be nil when decision
// journaling is disabled.
func NewDispatcher(
	judge *ClassificationJudge,
	resolver *RelationshipResolver,
	policy PolicyConfig,
	graph SocialGraph,
	notifier Notifier,
	journal Journal,
	allowlist Allowlist,
	queueSize int,
	workers int,
	logger *zap.Logger,
) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}

	return &Dispatcher{
		judge:     judge,
		resolver:  resolver,
		policy:    policy,
		graph:     graph,
		notifier:  notifier,
		journal:   journal,
		allowlist: allowlist,
		logger:    logger,
		queue:     make(chan AccountSnapshot, queueSize),
		workers:   workers,
	}
}

// Run opens every source and processes events until the context is
// cancelled. In-flight judgments are not awaited beyond worker exit.
func (d *Dispatcher) Run(ctx context.Context, sources []EventSource) error {
	var workerWG sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			d.work(ctx)
		}()
	}

	var sourceWG sync.WaitGroup
	for _, source := range sources {
		sourceWG.Add(1)
		go func(source EventSource) {
			defer sourceWG.Done()
			d.consume(ctx, source)
		}(source)
	}

	sourceWG.Wait()
	// Live sources only return on cancellation; if every source was a
	// finite backfill we still wait for shutdown here.
	<-ctx.Done()
	workerWG.Wait()

	return ctx.Err()
}

// consume pushes one source's events onto the shared queue
func (d *Dispatcher) consume(ctx context.Context, source EventSource) {
	events, err := source.Stream(ctx)
	if err != nil {
		d.logger.Error("Failed to open event source",
			zap.String("source", source.Name()),
			zap.Error(err))
		return
	}

	d.logger.Info("Listening to event source", zap.String("source", source.Name()))

	for snapshot := range events {
		select {
		case d.queue <- snapshot:
		case <-ctx.Done():
			return
		}
	}

	d.logger.Info("Event source finished", zap.String("source", source.Name()))
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case snapshot := <-d.queue:
			d.process(ctx, snapshot)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, snapshot AccountSnapshot) {
	metrics.EventsSeen.Inc()

	if snapshot.ID == "" {
		metrics.EventsSkipped.Inc()
		return
	}
	if d.allowlist != nil && d.allowlist.Contains(snapshot.Acct) {
		metrics.EventsSkipped.Inc()
		d.logger.Debug("Account is allowlisted, skipping", zap.String("acct", snapshot.Acct))
		return
	}

	verdict := d.judge.Judge(ctx, snapshot.ID, snapshot.AvatarURL)
	if verdict != VerdictBad {
		metrics.Actions.WithLabelValues(ActionNone.String()).Inc()
		return
	}

	rel := d.resolver.Resolve(ctx, snapshot.ID)
	action := Decide(verdict, rel, d.policy)
	metrics.Actions.WithLabelValues(action.String()).Inc()

	switch action {
	case ActionNone:
		if rel.Following {
			d.logger.Info("Account would be bad, but we follow them, so they get a pass",
				zap.String("acct", snapshot.Acct))
		} else {
			d.logger.Info("Account would be bad, but they follow us, so they get a pass",
				zap.String("acct", snapshot.Acct))
		}
		return
	case ActionFlag:
		d.logger.Info("Account flagged as bad", zap.String("acct", snapshot.Acct))
	case ActionBlock:
		d.logger.Info("Blocking account", zap.String("acct", snapshot.Acct))
		if err := d.graph.Block(ctx, snapshot.ID); err != nil {
			d.logger.Error("Failed to block account",
				zap.String("acct", snapshot.Acct),
				zap.Error(err))
		}
	}

	decision := Decision{
		Account:   snapshot,
		Verdict:   verdict,
		Action:    action,
		DecidedAt: time.Now(),
	}
	if d.notifier != nil {
		if err := d.notifier.Notify(ctx, decision); err != nil {
			d.logger.Error("Failed to notify decision",
				zap.String("acct", snapshot.Acct),
				zap.Error(err))
		}
	}
	if d.journal != nil {
		if err := d.journal.Record(ctx, decision); err != nil {
			d.logger.Error("Failed to journal decision",
				zap.String("acct", snapshot.Acct),
				zap.Error(err))
		}
	}
}
