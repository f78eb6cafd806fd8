package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// cache holds parsed expressions keyed by a hash of the source and the
// options that affect parsing. Only the parse is cached, never rows.
var cache sync.Map

type cacheEntry struct {
	once sync.Once
	src  string
	ast  *AST
	err  error
}

// seed folds the options that change the parse result into a hash seed.
func (o options) seed() uint64 {
	s := uint64(uint32(o.maxDepth)) << 1
	if o.emptyGroups {
		s |= 1
	}

	return s
}

// ParseString parses one expression from s.
//
// Results are cached for the life of the process, so parsing the same
// source with the same options again is cheap. The returned AST carries
// the options of this call, including its logger, even when the parse
// itself came from the cache.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	o := defaultOptions().apply(opts...)

	sum := xxh3.HashStringSeed(s, o.seed())
	key := strconv.FormatUint(sum, 36)

	value, hit := cache.LoadOrStore(key, new(cacheEntry))
	entry := value.(*cacheEntry)

	entry.once.Do(func() {
		entry.src = s
		entry.ast, entry.err = parse(ctx, StringOf(s), o)
	})

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit))

	if entry.src != s {
		// Hash collision: parse without caching.
		return parse(ctx, StringOf(s), o)
	}

	if entry.err != nil {
		return nil, entry.err
	}

	ast := *entry.ast
	ast.opts = o

	return &ast, nil
}

// ParseReader reads all of r and parses it with [ParseString].
// Reading happens ahead of consumption on a separate goroutine.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*AST, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ClearCache discards every cached parse.
func ClearCache() {
	cache.Clear()
}
