// Package env provides typed, defaultable access to environment variables and
// a loader that merges dotenv style sources into an environment.
//
// Every accessor takes an Optional default. With None the field is required
// and a missing or unparsable value yields a *MissingFieldError; with Some the
// default is returned as is.
//
//	port, err := env.Int("PORT", env.Some[int64](8080))
//	secret, err := env.String("SESSION_SECRET", env.None[string]())
package env

// Accessor reads typed values from an Environment.
type Accessor struct {
	env Environment
}

// New returns an Accessor reading from e.
func New(e Environment) *Accessor {
	return &Accessor{env: e}
}

var processAccessor = New(OS())

// String returns the raw value stored for key.
func (a *Accessor) String(key string, def Optional[string]) (string, error) {
	if value, ok := a.env.Lookup(key); ok {
		return value, nil
	}
	return fallback(key, def)
}

// Float returns the leading decimal number of the value stored for key.
// A value without any numeric prefix is handled like a missing one.
func (a *Accessor) Float(key string, def Optional[float64]) (float64, error) {
	raw, ok := a.env.Lookup(key)
	if !ok {
		return fallback(key, def)
	}
	value, ok := parseFloatPrefix(raw)
	if !ok {
		return fallback(key, def)
	}
	return value, nil
}

// Int returns the leading integer of the value stored for key. Digits are read
// in base 10 unless prefixed with 0x. Anything after the digits, such as a
// fractional part, is dropped.
func (a *Accessor) Int(key string, def Optional[int64]) (int64, error) {
	raw, ok := a.env.Lookup(key)
	if !ok {
		return fallback(key, def)
	}
	value, ok := parseIntPrefix(raw)
	if !ok {
		return fallback(key, def)
	}
	return value, nil
}

// Bool reads "true" or "false", ignoring case, surrounding white space and one
// layer of matching quotes. Any other value is handled like a missing one.
func (a *Accessor) Bool(key string, def Optional[bool]) (bool, error) {
	raw, ok := a.env.Lookup(key)
	if !ok {
		return fallback(key, def)
	}
	value, ok := parseBool(raw)
	if !ok {
		return fallback(key, def)
	}
	return value, nil
}

// String reads key from the process environment. See Accessor.String.
func String(key string, def Optional[string]) (string, error) {
	return processAccessor.String(key, def)
}

// Float reads key from the process environment. See Accessor.Float.
func Float(key string, def Optional[float64]) (float64, error) {
	return processAccessor.Float(key, def)
}

// Int reads key from the process environment. See Accessor.Int.
func Int(key string, def Optional[int64]) (int64, error) {
	return processAccessor.Int(key, def)
}

// Bool reads key from the process environment. See Accessor.Bool.
func Bool(key string, def Optional[bool]) (bool, error) {
	return processAccessor.Bool(key, def)
}
