package sexp

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by source content hash.
var globalCache sync.Map

// state tracks the parse result of one source.
type state struct {
	once  sync.Once
	exprs []*Expr
	err   error
}

// ParseReader reads all of r and parses it with [ParseAll].
//
// When called with default options, the result is cached by the hash of the
// input content, and subsequent calls with identical content return the
// cached expressions. Cached expressions are shared between callers and
// must not be modified.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) ([]*Expr, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	if o.maxDepth != DefaultMaxDepth {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.Int("max_depth", o.maxDepth))

		return ParseAll(ctx, string(data), opts...)
	}

	return parseCached(ctx, data, o, opts...)
}

func parseCached(
	ctx context.Context,
	data []byte,
	o options,
	opts ...Option,
) ([]*Expr, error) {
	sourceHash := xxh3.Hash(data)
	sourceKey := strconv.FormatUint(sourceHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(state))

	entry, ok := value.(*state)
	if !ok {
		return ParseAll(ctx, string(data), opts...)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", cacheHit))

	entry.once.Do(func() {
		entry.exprs, entry.err = ParseAll(ctx, string(data), opts...)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return slices.Clone(entry.exprs), nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
