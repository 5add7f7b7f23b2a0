package env

import (
	"io"
	"sort"

	"github.com/animalet/envkit/internal/expansion"
	"github.com/animalet/envkit/internal/snapshot"
	"github.com/animalet/envkit/pkg/resolver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPath is the source read when neither Options.Paths nor
// Options.Reader is set.
const DefaultPath = ".env"

// Options controls Load.
type Options struct {
	// Paths lists the files to read, in order. Defaults to DefaultPath.
	Paths []string
	// Reader, when set, is read instead of Paths.
	Reader io.Reader
	// Encoding is the WHATWG name of the source encoding, e.g. "utf-8" or
	// "latin1". Defaults to DefaultEncoding.
	Encoding string
	// Format of the sources. When empty it is inferred from each path's
	// extension, falling back to FormatDotenv.
	Format Format
	// Override replaces values already present in the target environment.
	Override bool
	// Expand resolves ${key} and ${prefix:key} references in the loaded
	// values. Single-quoted dotenv values are never expanded and \${ stands
	// for a literal ${.
	Expand bool
	// ReferenceDir is the directory read by ${file:name} references.
	ReferenceDir string
	// Resolvers are registered on top of the built-in env and file resolvers
	// when Expand is set.
	Resolvers map[string]resolver.PropertyResolver
	// Debug logs every source and key decision at debug level.
	Debug bool
}

func (o Options) sources() []source {
	if o.Reader != nil {
		return []source{readerSource(o.Reader, o.Format)}
	}

	paths := o.Paths
	if len(paths) == 0 {
		paths = []string{DefaultPath}
	}
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, fileSource(path, o.Format))
	}
	return sources
}

func (o Options) logger() zerolog.Logger {
	if !o.Debug {
		return zerolog.Nop()
	}
	return log.With().Str("component", "envkit").Logger().Level(zerolog.DebugLevel)
}

// registry builds the resolvers used for expansion. The env resolver sees
// values in the order they will end up in target once Load is done.
func (o Options) registry(parsed map[string]string, target Environment) *resolver.Registry {
	fromParsed := func(key string) (string, bool) {
		value, ok := parsed[key]
		return value, ok
	}
	lookups := []resolver.LookupFunc{target.Lookup, fromParsed}
	if o.Override {
		lookups = []resolver.LookupFunc{fromParsed, target.Lookup}
	}

	reg := resolver.NewRegistry()
	reg.Register(resolver.DefaultPrefix, resolver.NewEnvResolver(lookups...))
	if o.ReferenceDir != "" {
		reg.Register("file", resolver.NewFileResolver(o.ReferenceDir))
	}
	for prefix, r := range o.Resolvers {
		reg.Register(prefix, r)
	}
	return reg
}

// Load reads the configured sources and merges their values into target.
//
// Keys already present in target are kept unless Options.Override is set.
// When several sources define a key, the first one wins, or the last one
// with Options.Override.
//
// Load does not stop at the first failing source: the remaining ones are
// still read and applied, and the last error is returned together with the
// values that could be parsed. A missing file is therefore something callers
// can choose to ignore.
func Load(target Environment, opts Options) (map[string]string, error) {
	logger := opts.logger()

	var lastErr error
	parsed := make(map[string]string)
	literal := make(map[string]bool)
	for _, src := range opts.sources() {
		read, err := src.read(opts.Encoding)
		if err != nil {
			logger.Debug().Err(err).Str("source", src.name).Msg("Failed to load source")
			lastErr = err
			continue
		}
		logger.Debug().Str("source", src.name).Int("keys", len(read.values)).Msg("Loaded source")

		for key, value := range read.values {
			if _, seen := parsed[key]; seen && !opts.Override {
				continue
			}
			parsed[key] = value
			literal[key] = read.literal[key]
		}
	}

	if opts.Expand && len(parsed) > 0 {
		if err := expand(parsed, literal, opts.registry(parsed, target)); err != nil {
			// Nothing is applied when references cannot be resolved.
			out, copyErr := snapshot.Copy(parsed)
			if copyErr != nil {
				return nil, copyErr
			}
			return out, err
		}
	}

	if err := apply(target, parsed, opts.Override, logger); err != nil {
		lastErr = err
	}

	out, err := snapshot.Copy(parsed)
	if err != nil {
		return nil, err
	}
	return out, lastErr
}

// expand resolves the references of every value that is not literal. The
// resolvers keep seeing the unexpanded values while it runs.
func expand(values map[string]string, literal map[string]bool, reg *resolver.Registry) error {
	expandable := make(map[string]string, len(values))
	for key, value := range values {
		if !literal[key] {
			expandable[key] = value
		}
	}
	if err := expansion.Values(expandable, reg); err != nil {
		return err
	}
	for key, value := range expandable {
		values[key] = value
	}
	return nil
}

func apply(target Environment, values map[string]string, override bool, logger zerolog.Logger) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var lastErr error
	for _, key := range keys {
		if _, exists := target.Lookup(key); exists && !override {
			logger.Debug().Str("key", key).Msg("Already defined, not overwritten")
			continue
		}
		if err := target.Set(key, values[key]); err != nil {
			lastErr = errors.Wrapf(err, "unable to apply %q", key)
			continue
		}
		logger.Debug().Str("key", key).Bool("override", override).Msg("Applied")
	}
	return lastErr
}
