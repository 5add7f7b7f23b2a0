package main

import (
	"strconv"
	"strings"

	"github.com/animalet/envkit/pkg/env"
	"github.com/pkg/errors"
)

type lookupType string

const (
	typeString lookupType = "string"
	typeFloat  lookupType = "float"
	typeInt    lookupType = "int"
	typeBool   lookupType = "bool"
)

// lookup is one KEY[:type][=default] argument.
type lookup struct {
	key        string
	kind       lookupType
	def        string
	hasDefault bool
}

func parseLookups(args []string) ([]lookup, error) {
	lookups := make([]lookup, 0, len(args))
	for _, arg := range args {
		l, err := parseLookup(arg)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, nil
}

func parseLookup(arg string) (lookup, error) {
	typedKey, def, hasDefault := strings.Cut(arg, "=")
	key, kind, typed := strings.Cut(typedKey, ":")
	if key == "" {
		return lookup{}, errors.Errorf("missing key in %q", arg)
	}
	if !typed {
		kind = string(typeString)
	}

	switch lookupType(kind) {
	case typeString, typeFloat, typeInt, typeBool:
	default:
		return lookup{}, errors.Errorf("unknown type %q in %q", kind, arg)
	}
	return lookup{key: key, kind: lookupType(kind), def: def, hasDefault: hasDefault}, nil
}

// resolve reads l through a. Defaults are given in the same syntax as the
// values they stand for and must parse strictly.
func (l lookup) resolve(a *env.Accessor) (any, error) {
	switch l.kind {
	case typeFloat:
		def := env.None[float64]()
		if l.hasDefault {
			value, err := strconv.ParseFloat(l.def, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid float default for %q", l.key)
			}
			def = env.Some(value)
		}
		return a.Float(l.key, def)

	case typeInt:
		def := env.None[int64]()
		if l.hasDefault {
			value, err := strconv.ParseInt(l.def, 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid int default for %q", l.key)
			}
			def = env.Some(value)
		}
		return a.Int(l.key, def)

	case typeBool:
		def := env.None[bool]()
		if l.hasDefault {
			value, err := strconv.ParseBool(l.def)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid bool default for %q", l.key)
			}
			def = env.Some(value)
		}
		return a.Bool(l.key, def)

	default:
		def := env.None[string]()
		if l.hasDefault {
			def = env.Some(l.def)
		}
		return a.String(l.key, def)
	}
}

func resolveAll(a *env.Accessor, lookups []lookup) (map[string]any, error) {
	result := make(map[string]any, len(lookups))
	for _, l := range lookups {
		value, err := l.resolve(a)
		if err != nil {
			return nil, err
		}
		result[l.key] = value
	}
	return result, nil
}
