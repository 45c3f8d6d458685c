package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"scriptlint/internal/diag"
	"scriptlint/internal/jslint"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/source"
	"scriptlint/internal/trace"
)

// Options tunes one batch.
type Options struct {
	Jobs           int // <= 0 - GOMAXPROCS
	MaxDiagnostics int // per record, 0 - без ограничения
	Dedup          bool
	Config         jslint.Config

	// NewLinter creates the lint capability for one record. nil builds a
	// jslint.Linter from Config.
	NewLinter func() (Linter, error)

	Cache    *DiskCache
	Progress ProgressSink
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// effectiveConfig is Options.Config, or the default configuration when it
// was left zero.
func (o Options) effectiveConfig() jslint.Config {
	if o.Config.ECMAVersion == 0 && len(o.Config.Rules) == 0 {
		return jslint.DefaultConfig()
	}
	return o.Config
}

// batch is the per-call state shared by the workers of one LintBatch.
type batch struct {
	kind      record.Kind
	builder   *scope.Builder
	cfg       jslint.Config
	newLinter func() (Linter, error)
	opts      Options
}

func newBatch(kind record.Kind, builder *scope.Builder, opts Options) *batch {
	b := &batch{kind: kind, builder: builder, cfg: opts.effectiveConfig(), opts: opts}
	b.newLinter = opts.NewLinter
	if b.newLinter == nil {
		cfg := b.cfg
		b.newLinter = func() (Linter, error) {
			return jslint.New(cfg)
		}
	}
	return b
}

// LintBatch lints records of one kind concurrently.
//
// Records without a script are dropped first; the returned slice holds one
// Result per remaining record, in input order. A record whose lint pass
// fails gets a Result with Err set and no diagnostics; the batch goes on.
// The only error returned is the cancellation of ctx, together with the
// results collected so far (unfinished records have Err set to ctx.Err()).
func LintBatch(ctx context.Context, records []record.Record, kind record.Kind, builder *scope.Builder, opts Options) ([]diag.Result, error) {
	records = record.WithScript(records)
	if len(records) == 0 {
		return nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeBatch, "lint:"+kind.String())
	span.SetInt("records", len(records))
	started := time.Now()
	emitQueued(opts.Progress, kind, records)

	b := newBatch(kind, builder, opts)

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]diag.Result, len(records))
	done := make([]bool, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(records)))

	for i, rec := range records {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = b.lintOne(gctx, rec)
			done[i] = true
			return nil
		})
	}

	err := g.Wait()
	failed := 0
	for i := range results {
		if !done[i] {
			results[i] = diag.NewResult(records[i], kind)
			results[i].Err = err
		}
		if results[i].Err != nil {
			failed++
		}
	}

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(opts.Progress, Event{Kind: kind, Status: status, Err: err, Elapsed: time.Since(started)})
	span.SetInt("failed", failed)
	span.End(kind.String())
	return results, err
}

func (b *batch) lintOne(ctx context.Context, rec record.Record) diag.Result {
	ctx, span := trace.Start(ctx, trace.ScopeRecord, rec.Name)
	started := time.Now()
	kind, sink := b.kind, b.opts.Progress
	emit(sink, Event{Record: rec.Name, Kind: kind, Status: StatusWorking})

	env := b.builder.Build(rec.Name, kind == record.KindLibrary)
	file := source.Prepare(rec.Name, rec.Script)

	cache := b.opts.Cache
	var key CacheKey
	if cache != nil {
		key = ResultKey(file.Text(), kind, env, b.cfg)
		if res, ok := cachedResult(ctx, cache, key, rec, kind, file); ok {
			res = b.finish(res)
			rulePoints(ctx, res, span)
			emit(sink, Event{Record: rec.Name, Kind: kind, Status: StatusCached, Elapsed: time.Since(started)})
			span.SetInt("diagnostics", len(res.Diagnostics))
			span.End("cached")
			return res
		}
	}

	res, err := b.lintFile(ctx, rec, env, file)
	if err != nil {
		res = diag.NewResult(rec, kind)
		res.Err = err
		trace.Point(trace.FromContext(ctx), trace.ScopeRecord, "lint-failed", err.Error(), span.ID())
		emit(sink, Event{Record: rec.Name, Kind: kind, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End("error")
		return res
	}

	if cache != nil {
		payload := &DiskPayload{
			Name:        rec.Name,
			Kind:        uint8(kind),
			Diagnostics: res.Diagnostics,
			HasSource:   res.File != nil,
			Stored:      time.Now(),
		}
		if err := cache.Put(key, payload); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeRecord, "cache-put-failed", err.Error(), span.ID())
		}
	}
	res = b.finish(res)
	rulePoints(ctx, res, span)
	emit(sink, Event{Record: rec.Name, Kind: kind, Status: StatusDone, Elapsed: time.Since(started)})
	span.SetInt("diagnostics", len(res.Diagnostics))
	span.End("")
	return res
}

// rulePoints records one rule-scope point per reported diagnostic.
func rulePoints(ctx context.Context, res diag.Result, span *trace.Span) {
	tracer := trace.FromContext(ctx)
	for _, d := range res.Diagnostics {
		trace.Point(tracer, trace.ScopeRule, d.RuleID, fmt.Sprintf("%d:%d %s", d.Line, d.Column, d.Message), span.ID())
	}
}

func (b *batch) lintFile(ctx context.Context, rec record.Record, env scope.Environment, file *source.File) (diag.Result, error) {
	l, err := b.newLinter()
	if err != nil {
		return diag.Result{}, err
	}
	return analyzeFile(ctx, l, rec, b.kind, env, file, 0)
}

// finish applies the per-record limit and the optional dedup. The cache
// always holds the full list, so both can change between runs.
func (b *batch) finish(res diag.Result) diag.Result {
	if b.opts.MaxDiagnostics <= 0 && !b.opts.Dedup {
		return res
	}
	bag := diag.NewBag(b.opts.MaxDiagnostics)
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if b.opts.Dedup {
		rep = diag.NewDedupReporter(rep)
	}
	for _, d := range res.Diagnostics {
		rep.Report(d)
	}
	res.Diagnostics = bag.Items()
	return res
}

func cachedResult(ctx context.Context, cache *DiskCache, key CacheKey, rec record.Record, kind record.Kind, file *source.File) (diag.Result, bool) {
	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		// битая запись - просто линтим заново
		trace.Point(trace.FromContext(ctx), trace.ScopeRecord, "cache-get-failed", err.Error(), trace.CurrentSpan(ctx).SpanID)
		return diag.Result{}, false
	}
	if !ok {
		return diag.Result{}, false
	}
	res := diag.NewResult(rec, kind)
	if payload.HasSource {
		res.File = file
	}
	res.Diagnostics = payload.Diagnostics
	return res, true
}

// errAllFailed reports whether every result of a non-empty batch failed.
func errAllFailed(results []diag.Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return true
}

func firstErr(results []diag.Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return errors.New("no failure recorded")
}
