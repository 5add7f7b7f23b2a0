package resolver

import (
	"github.com/rs/zerolog/log"
)

// LookupFunc reports the value of key and whether it is defined.
type LookupFunc func(key string) (string, bool)

// EnvResolver resolves keys through a chain of lookups; the first one that
// defines the key wins. An undefined key resolves to the empty string and is
// logged as a warning.
//
//	DATABASE_URL=postgres://${env:DB_HOST}/app
type EnvResolver struct {
	lookups []LookupFunc
}

// NewEnvResolver returns a resolver consulting lookups in order.
func NewEnvResolver(lookups ...LookupFunc) *EnvResolver {
	return &EnvResolver{lookups: lookups}
}

func (e *EnvResolver) Resolve(key string) (string, error) {
	for _, lookup := range e.lookups {
		if value, ok := lookup(key); ok {
			log.Debug().Str("env_var", key).Msg("Resolved environment reference")
			return value, nil
		}
	}

	log.Warn().
		Str("env_var", key).
		Msg("Environment variable not set - using empty string")
	return "", nil
}

func (e *EnvResolver) Name() string {
	return "Environment"
}
