// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ContinuousC/JaegerDiscovery/internal/esquery"
	"github.com/ContinuousC/JaegerDiscovery/internal/relationgraph"
)

// SpanSource opens a paginated cursor over spans with startTime >=
// sinceMicros (inclusive), sorted ascending, resuming after resumeAfter
// (exclusive) if non-nil. It is satisfied by ESSource in production and
// faked in tests.
type SpanSource interface {
	Open(ctx context.Context, sinceMicros int64, resumeAfter *int64, batchSize int) (SpanCursor, error)
}

// SpanCursor is the minimal interface Discovery needs from a cursor: page
// through hits, and close when done.
type SpanCursor interface {
	Next(ctx context.Context) (page []esquery.Hit, ok bool, err error)
	Close(ctx context.Context) error
}

// Publisher sends a materialized graph downstream. Satisfied by
// *relationgraph.Client in production.
type Publisher interface {
	Publish(ctx context.Context, items *relationgraph.Items) error
}

// Store loads and saves State snapshots. Satisfied by FileStore (a thin
// wrapper over the snapshot package) in production.
type Store interface {
	Load(v any) (found bool, err error)
	Save(v any) error
}

// Options configures a Discovery run. Zero values fall back to the
// spec's hardcoded defaults.
type Options struct {
	BatchSize      int
	TraceWindow    time.Duration
	TopologyWindow time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 1000
	}
	if o.TraceWindow <= 0 {
		o.TraceWindow = TraceWindow
	}
	if o.TopologyWindow <= 0 {
		o.TopologyWindow = TopologyWindow
	}
	return o
}

// Discovery sequences one full discovery iteration: load state, ingest
// new spans, prune, publish, persist.
type Discovery struct {
	store     Store
	source    SpanSource
	publisher Publisher
	log       *zap.Logger
	opts      Options

	state *State
}

// NewDiscovery constructs a Discovery. Call Load once before the first Run.
func NewDiscovery(store Store, source SpanSource, publisher Publisher, log *zap.Logger, opts Options) *Discovery {
	return &Discovery{
		store:     store,
		source:    source,
		publisher: publisher,
		log:       log,
		opts:      opts.withDefaults(),
	}
}

// Load reads the persisted state, or initializes an empty one if none
// exists yet.
func (d *Discovery) Load() error {
	state := New()
	found, err := d.store.Load(state)
	if err != nil {
		return err
	}
	if !found {
		state = New()
	}
	d.state = state
	return nil
}

// State exposes the loaded state, primarily for tests.
func (d *Discovery) State() *State {
	return d.state
}

// Run executes one discovery iteration against now.
func (d *Discovery) Run(ctx context.Context, now time.Time) error {
	d.log.Info("running discovery")

	operThreshold := now.Add(-d.opts.TopologyWindow)

	var resumeAfter *int64
	if d.state.LastSpan != nil {
		us := d.state.LastSpan.UnixMicro()
		resumeAfter = &us
	}

	cursor, err := d.source.Open(ctx, operThreshold.UnixMicro(), resumeAfter, d.opts.BatchSize)
	if err != nil {
		return err
	}

	n, ingestErr := d.drain(ctx, cursor)

	if closeErr := cursor.Close(ctx); closeErr != nil {
		d.log.Warn("failed to close span cursor", zap.Error(closeErr))
	}

	if ingestErr != nil {
		return ingestErr
	}
	d.log.Info("processed spans", zap.Int("count", n))

	d.state.Retain(operThreshold)

	items := d.state.Materialize()
	d.log.Info("materialized graph",
		zap.Int("items", len(items.Items.Items)),
		zap.Int("relations", len(items.Items.Relations)))

	if err := d.publisher.Publish(ctx, items); err != nil {
		return err
	}

	return d.store.Save(d.state)
}

// drain feeds every span in the cursor to the ingestor, advancing
// last_span and pruning the trace index after each batch.
func (d *Discovery) drain(ctx context.Context, cursor SpanCursor) (int, error) {
	ingestor := NewIngestor(d.state)
	n := 0

	for {
		page, ok, err := cursor.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}

		n += len(page)
		for _, hit := range page {
			if err := ingestor.Ingest(hit.Source); err != nil {
				return n, err
			}
		}

		if last := page[len(page)-1]; len(last.Sort) > 0 {
			t, err := MicrosToTime(last.Sort[0])
			if err != nil {
				return n, err
			}
			d.state.LastSpan = &t
			d.state.PruneTraces(t.Add(-d.opts.TraceWindow))
		}
	}
}
