package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/argx/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML mapping of flag
// names to values:
//
//	log-level: debug
//	format: json
//	max_rows: 1000
//	set:
//	  - GREETING=hello
//
// Flag names may use underscores in place of hyphens. Numbers are passed to
// kong as strings so every flag type can decode them. A document that is
// not a mapping is ignored with a warning; command-line flags always
// override config values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Default().Warn("ignoring unreadable config file", slog.Any("error", err))

		return config{}, nil
	}

	cfg := make(config, len(doc))
	for key, val := range doc {
		cfg[strings.ReplaceAll(key, "_", "-")] = native(val)
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a decoded YAML mapping, keyed by
// hyphenated flag name.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if val, ok := c[flag.Name]; ok {
		return val, nil
	}

	return nil, nil //nolint:nilnil
}

// native converts a decoded YAML value into a form kong's mappers accept.
func native(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out
	default:
		return v
	}
}
