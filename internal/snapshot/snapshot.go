// Package snapshot hands out detached copies of loader state so callers can
// keep or mutate what they receive without affecting later loads.
package snapshot

import (
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Copy returns a deep copy of src.
func Copy[T any](src T) (T, error) {
	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "failed to deep copy type %T", src)
	}
	return dst, nil
}
