package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-envparse"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Format names the syntax of a source.
type Format string

const (
	// FormatDotenv is the KEY=value syntax of .env files.
	FormatDotenv Format = "dotenv"
	// FormatYAML is a flat YAML mapping of scalars.
	FormatYAML Format = "yaml"
	// FormatTOML is a flat TOML table of scalars.
	FormatTOML Format = "toml"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

// formatFor infers the format of path from its extension.
func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatDotenv
	}
}

// decode wraps r so that it yields UTF-8 text from the named encoding.
func decode(r io.Reader, encoding string) (io.Reader, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported encoding %q", encoding)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// entries are the values read from one source. Literal keys come from
// single-quoted dotenv values and are never expanded.
type entries struct {
	values  map[string]string
	literal map[string]bool
}

// parse reads a whole source in the given format.
func parse(r io.Reader, format Format) (entries, error) {
	switch format {
	case "", FormatDotenv:
		return parseDotenv(r)

	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return entries{}, errors.Wrap(err, "unable to read yaml source")
		}
		var raw map[string]any
		if err = yaml.Unmarshal(data, &raw); err != nil {
			return entries{}, errors.Wrap(err, "invalid yaml syntax")
		}
		return flatten(raw)

	case FormatTOML:
		data, err := io.ReadAll(r)
		if err != nil {
			return entries{}, errors.Wrap(err, "unable to read toml source")
		}
		var raw map[string]any
		if err = toml.Unmarshal(data, &raw); err != nil {
			return entries{}, errors.Wrap(err, "invalid toml syntax")
		}
		return flatten(raw)

	default:
		return entries{}, errors.Errorf("unknown source format %q", format)
	}
}

// parseDotenv parses KEY=value lines without any interpolation. Lines are
// handed to envparse one at a time so that single-quoted values can be told
// apart from the others.
func parseDotenv(r io.Reader) (entries, error) {
	out := entries{values: make(map[string]string), literal: make(map[string]bool)}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		parsed, err := envparse.Parse(strings.NewReader(text))
		if err != nil {
			var parseErr *envparse.ParseError
			if errors.As(err, &parseErr) {
				err = parseErr.Err
			}
			return entries{}, errors.Wrapf(err, "invalid dotenv syntax on line %d", line)
		}
		for key, value := range parsed {
			out.values[key] = value
			out.literal[key] = singleQuoted(text)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries{}, errors.Wrap(err, "unable to read dotenv source")
	}
	return out, nil
}

func singleQuoted(line string) bool {
	_, value, _ := strings.Cut(line, "=")
	return strings.HasPrefix(strings.TrimSpace(value), "'")
}

// flatten turns a mapping of scalars into strings. Nested values are rejected.
func flatten(raw map[string]any) (entries, error) {
	values := make(map[string]string, len(raw))
	for key, value := range raw {
		text, err := scalar(value)
		if err != nil {
			return entries{}, errors.Wrapf(err, "invalid value for %q", key)
		}
		values[key] = text
	}
	return entries{values: values}, nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return "", errors.New("nested values are not supported")
	default:
		return fmt.Sprint(value), nil
	}
}

// source is one input of Load.
type source struct {
	name   string
	format Format
	open   func() (io.ReadCloser, error)
}

func (s source) read(encoding string) (entries, error) {
	rc, err := s.open()
	if err != nil {
		return entries{}, err
	}
	defer func() { _ = rc.Close() }()

	r, err := decode(rc, encoding)
	if err != nil {
		return entries{}, err
	}
	read, err := parse(r, s.format)
	if err != nil {
		return entries{}, errors.Wrapf(err, "unable to parse %s", s.name)
	}
	return read, nil
}

func fileSource(path string, format Format) source {
	if format == "" {
		format = formatFor(path)
	}
	return source{
		name:   path,
		format: format,
		open: func() (io.ReadCloser, error) {
			// #nosec G304 -- loading the caller supplied path is the point
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to open %s", path)
			}
			return f, nil
		},
	}
}

func readerSource(r io.Reader, format Format) source {
	return source{
		name:   "reader",
		format: format,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}
}
