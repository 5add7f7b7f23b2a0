// Package expansion expands ${prefix:key} references found in loaded values.
//
// Only the braced form is a reference. A bare $ is kept as is, so values such
// as pa$$word or $1 survive, and \${ yields a literal ${.
package expansion

import (
	"sort"
	"strings"

	"github.com/animalet/envkit/pkg/resolver"
	"github.com/pkg/errors"
)

const open = "${"

// Value expands every ${...} reference in s through reg. An empty ${} or one
// that is never closed is copied unchanged. The first resolution failure
// aborts the expansion.
func Value(s string, reg *resolver.Registry) (string, error) {
	if !strings.Contains(s, open) {
		return s, nil
	}

	var out strings.Builder
	out.Grow(len(s))
	for len(s) > 0 {
		i := strings.Index(s, open)
		if i < 0 {
			out.WriteString(s)
			break
		}
		if i > 0 && s[i-1] == '\\' {
			out.WriteString(s[:i-1])
			out.WriteString(open)
			s = s[i+len(open):]
			continue
		}
		out.WriteString(s[:i])

		rest := s[i+len(open):]
		end := strings.IndexByte(rest, '}')
		if end <= 0 {
			out.WriteString(open)
			s = rest
			continue
		}

		value, err := reg.Resolve(rest[:end])
		if err != nil {
			return "", errors.Wrap(err, "error resolving reference")
		}
		out.WriteString(value)
		s = rest[end+1:]
	}
	return out.String(), nil
}

// Values expands every value of values in place. Keys are processed in sorted
// order so that errors are reported deterministically; on error values is
// left partially expanded.
func Values(values map[string]string, reg *resolver.Registry) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expanded, err := Value(values[key], reg)
		if err != nil {
			return errors.Wrapf(err, "unable to expand %q", key)
		}
		values[key] = expanded
	}
	return nil
}
