package env

import "strings"

const missingFieldTemplate = "Missing environment field '{0}'!"

// MissingFieldError is returned by the accessors when a required field is
// absent from the environment or cannot be coerced to the requested type.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return strings.Replace(missingFieldTemplate, "{0}", e.Key, 1)
}

// fallback returns the default held by def, or a MissingFieldError for key
// when def is empty.
func fallback[T any](key string, def Optional[T]) (T, error) {
	if value, ok := def.Get(); ok {
		return value, nil
	}
	var zero T
	return zero, &MissingFieldError{Key: key}
}
