// Package pipeline orchestrates one ingestion cycle: fetch each configured
// listing, decode it, normalize row by row, and upsert the survivors. Row
// failures are isolated, so one bad row never aborts a batch, while fetch
// and decode failures abort that source's portion of the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/quakewatch/quake-data-etl/internal/decode"
	"github.com/quakewatch/quake-data-etl/internal/domain"
	"github.com/quakewatch/quake-data-etl/internal/observability"
)

// Source is one listing to poll: a known layout variant plus its URL.
type Source struct {
	Variant domain.Variant
	URL     string
}

// Fetcher retrieves a raw listing document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Store persists candidate events with upsert-if-absent semantics keyed by
// the identity key. The conflict policy is keep-existing: a duplicate
// candidate is discarded, never merged.
type Store interface {
	UpsertIfAbsent(ctx context.Context, key string, ev domain.QuakeEvent) (domain.UpsertOutcome, error)
}

// Announcer publishes newly inserted events downstream. Optional.
type Announcer interface {
	Announce(ctx context.Context, key string, ev domain.QuakeEvent) error
}

// Summary is one run's outcome counts, aggregated across sources.
type Summary struct {
	RowsSeen      int
	DecodeSkipped int
	Normalized    int
	Rejected      int
	Inserted      int
	Duplicates    int
	StoreErrors   int
	Announced     int
	SourcesFailed int
}

// Pipeline runs the fetch-decode-normalize-upsert cycle over the configured
// sources. It holds no per-run state beyond atomics, so accidentally
// overlapping runs cannot corrupt it; duplicate upserts between overlapping
// runs are absorbed by the store's conflict policy.
type Pipeline struct {
	sources   []Source
	fetcher   Fetcher
	store     Store
	announcer Announcer
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil announcer to disable downstream publishing.
func New(sources []Source, fetcher Fetcher, store Store, announcer Announcer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		sources:   sources,
		fetcher:   fetcher,
		store:     store,
		announcer: announcer,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has ingested from at least
// one source successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a successful run yet")
	}
	return nil
}

// RunOnce executes one full ingestion cycle. It is safe to invoke repeatedly
// and concurrently. A source whose fetch or decode fails is skipped for this
// run and reported in the returned error; the remaining sources still run.
func (p *Pipeline) RunOnce(ctx context.Context) (Summary, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var (
		total   Summary
		runErrs []error
		anyOK   bool
	)
	for _, src := range p.sources {
		if ctx.Err() != nil {
			runErrs = append(runErrs, ctx.Err())
			break
		}
		sum, err := p.runSource(ctx, src)
		addSummary(&total, sum)
		if err != nil {
			total.SourcesFailed++
			runErrs = append(runErrs, fmt.Errorf("source %s: %w", src.Variant.Name, err))
			p.logger.Error("source run failed", "variant", src.Variant.Name, "url", src.URL, "error", err)
			continue
		}
		anyOK = true
	}

	outcome := "success"
	if !anyOK {
		outcome = "failure"
	} else {
		p.ready.Store(true)
	}
	p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("run complete",
		"rows_seen", total.RowsSeen,
		"decode_skipped", total.DecodeSkipped,
		"normalized", total.Normalized,
		"rejected", total.Rejected,
		"inserted", total.Inserted,
		"duplicates", total.Duplicates,
		"store_errors", total.StoreErrors,
		"announced", total.Announced,
		"sources_failed", total.SourcesFailed,
		"duration", time.Since(start),
	)

	return total, errors.Join(runErrs...)
}

// runSource ingests one listing. Fetch and decode failures are fatal for the
// source; everything after that is per-row.
func (p *Pipeline) runSource(ctx context.Context, src Source) (Summary, error) {
	var sum Summary

	doc, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return sum, fmt.Errorf("fetch: %w", err)
	}

	res, err := decode.Decode(doc, src.Variant)
	if err != nil {
		return sum, fmt.Errorf("decode: %w", err)
	}
	sum.RowsSeen = len(res.Rows) + res.Skipped
	sum.DecodeSkipped = res.Skipped
	p.metrics.RowsSeen.WithLabelValues(src.Variant.Name).Add(float64(sum.RowsSeen))

	for _, row := range res.Rows {
		ev, err := domain.Normalize(row, src.Variant)
		if err != nil {
			sum.Rejected++
			p.recordRejection(src, row, err)
			continue
		}
		sum.Normalized++

		key := domain.IdentityKey(ev)
		outcome, err := p.store.UpsertIfAbsent(ctx, key, ev)
		if err != nil {
			sum.StoreErrors++
			p.metrics.StoreErrors.WithLabelValues(src.Variant.Name).Inc()
			p.logger.Warn("upsert failed, skipping event",
				"variant", src.Variant.Name, "key", key, "error", err)
			continue
		}
		switch outcome {
		case domain.OutcomeInserted:
			sum.Inserted++
			p.metrics.EventsInserted.WithLabelValues(src.Variant.Name).Inc()
			if p.announce(ctx, key, ev) {
				sum.Announced++
			}
		case domain.OutcomeDuplicate:
			sum.Duplicates++
			p.metrics.DuplicatesSkipped.WithLabelValues(src.Variant.Name).Inc()
		}
	}

	return sum, nil
}

// announce publishes an inserted event when an announcer is configured.
// Announce failures are logged and do not affect the stored event.
func (p *Pipeline) announce(ctx context.Context, key string, ev domain.QuakeEvent) bool {
	if p.announcer == nil {
		return false
	}
	if err := p.announcer.Announce(ctx, key, ev); err != nil {
		p.logger.Warn("announce failed", "key", key, "error", err)
		return false
	}
	p.metrics.EventsAnnounced.Inc()
	return true
}

func (p *Pipeline) recordRejection(src Source, row domain.RawRow, err error) {
	reason := "unknown"
	var rowErr *domain.RowError
	if errors.As(err, &rowErr) {
		reason = string(rowErr.Reason)
	}
	p.metrics.RowsRejected.WithLabelValues(src.Variant.Name, reason).Inc()
	p.logger.Warn("row rejected",
		"variant", src.Variant.Name,
		"reason", reason,
		"row", row.Line,
		"ordinal", row.Ordinal,
	)
}

func addSummary(total *Summary, s Summary) {
	total.RowsSeen += s.RowsSeen
	total.DecodeSkipped += s.DecodeSkipped
	total.Normalized += s.Normalized
	total.Rejected += s.Rejected
	total.Inserted += s.Inserted
	total.Duplicates += s.Duplicates
	total.StoreErrors += s.StoreErrors
	total.Announced += s.Announced
}
