package env

import (
	"os"

	"github.com/pkg/errors"
)

// Environment is a string to string store holding configuration values.
// Accessors only ever call Lookup; Set is used by Load to merge new entries.
type Environment interface {
	// Lookup returns the value stored for key and whether the key is present.
	// A present key may hold an empty value.
	Lookup(key string) (string, bool)

	// Set stores value for key, replacing any previous value.
	Set(key, value string) error
}

type osEnvironment struct{}

// OS returns the Environment backed by the process environment.
func OS() Environment {
	return osEnvironment{}
}

func (osEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (osEnvironment) Set(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return errors.Wrapf(err, "unable to set environment variable %q", key)
	}
	return nil
}

// Map is an in-memory Environment, handy for tests and for hosts that keep
// their configuration isolated from the process environment.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

func (m Map) Set(key, value string) error {
	if m == nil {
		return errors.New("cannot set a value on a nil environment map")
	}
	m[key] = value
	return nil
}
