package driver

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptlint/internal/diag"
	"scriptlint/internal/jslint"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/trace"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	key := ResultKey("x = 1;", record.KindTrigger, scope.Environment{}, jslint.DefaultConfig())
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []diag.Diagnostic{diag.New(diag.SevError, "r", 1, 1, "m").WithEnd(1, 6)}
	require.NoError(t, cache.Put(key, &DiskPayload{Name: "T", Diagnostics: want}))

	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, out.Diagnostics)
	assert.Equal(t, diskCacheSchemaVersion, out.Schema)

	require.NoError(t, cache.DropAll())
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("scriptlint")
	require.NoError(t, err)
	assert.Equal(t, base+"/scriptlint", cache.Dir())
}

func TestResultKeyDependsOnInputs(t *testing.T) {
	b := scope.NewBuilder([]string{"A", "B"}, nil)
	cfg := jslint.DefaultConfig()
	base := ResultKey("x = 1;", record.KindLibrary, b.Build("A", true), cfg)

	assert.Equal(t, base, ResultKey("x = 1;", record.KindLibrary, b.Build("A", true), cfg))
	assert.NotEqual(t, base, ResultKey("x = 2;", record.KindLibrary, b.Build("A", true), cfg))
	assert.NotEqual(t, base, ResultKey("x = 1;", record.KindTrigger, b.Build("A", true), cfg))
	assert.NotEqual(t, base, ResultKey("x = 1;", record.KindLibrary, b.Build("B", true), cfg), "access levels are part of the key")

	cfg.ECMAVersion = 2020
	assert.NotEqual(t, base, ResultKey("x = 1;", record.KindLibrary, b.Build("A", true), cfg))
}

func TestLintBatchUsesCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	var calls atomic.Int32
	opts := fakeOptions()
	opts.Cache = cache
	opts.NewLinter = func() (Linter, error) {
		calls.Add(1)
		return fakeLinter{}, nil
	}
	records := []record.Record{lib("A", "bad"), lib("B", "BOOM")}
	builder := scope.NewBuilder([]string{"A", "B"}, nil)

	first, err := LintBatch(context.Background(), records, record.KindLibrary, builder, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	second, err := LintBatch(context.Background(), records, record.KindLibrary, builder, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "only the failed record is linted again")

	assert.Equal(t, first[0].Diagnostics, second[0].Diagnostics)
	require.NotNil(t, second[0].File)
	assert.Equal(t, "bad", second[0].File.Text())
	assert.ErrorIs(t, second[1].Err, errBoom)
}

func TestCacheHitKeepsSourceAndRulePoints(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	opts := fakeOptions()
	opts.Cache = cache
	opts.NewLinter = func() (Linter, error) {
		// текст не возвращается, как у линтера без Source
		return linterFunc(func(string) jslint.Result {
			return jslint.Result{Messages: []jslint.Message{{
				RuleID: "no-implicit-globals", Severity: jslint.LevelError, Message: "leak",
				Line: 1, Column: 1, EndLine: 1, EndColumn: 5,
			}}}
		}), nil
	}
	records := []record.Record{lib("A", "leak = 1;")}
	builder := scope.NewBuilder([]string{"A"}, nil)

	countRulePoints := func(ring *trace.RingTracer) int {
		n := 0
		for _, ev := range ring.Snapshot() {
			if ev.Kind == trace.KindPoint && ev.Scope == trace.ScopeRule {
				n++
			}
		}
		return n
	}

	cold := trace.NewRingTracer(64, trace.LevelDebug, "cold")
	first, err := LintBatch(trace.WithTracer(context.Background(), cold), records, record.KindLibrary, builder, opts)
	require.NoError(t, err)
	assert.Nil(t, first[0].File)
	assert.Equal(t, 1, countRulePoints(cold))

	warm := trace.NewRingTracer(64, trace.LevelDebug, "warm")
	second, err := LintBatch(trace.WithTracer(context.Background(), warm), records, record.KindLibrary, builder, opts)
	require.NoError(t, err)
	assert.Nil(t, second[0].File, "a cached result without source must not gain one")
	assert.Equal(t, first[0].Diagnostics, second[0].Diagnostics)
	assert.Equal(t, 1, countRulePoints(warm), "cache hits report rule points too")
}
