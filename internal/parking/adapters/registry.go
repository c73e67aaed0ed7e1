package adapters

import (
	"errors"
	"fmt"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// ErrUnknownAdapter is wrapped by ForTag when a configured selector has
// no registered normalization function.
var ErrUnknownAdapter = errors.New("unknown adapter")

// registry maps config selector tags onto normalization functions.
// Basel and Zürich both publish through the ParkenDD aggregator and share
// its adapter.
var registry = map[string]parking.NormalizeFunc{
	"parkendd": ParkenDD,
	"stgallen": StGallen,
	"luzern":   Luzern,
}

// ForTag resolves a configured adapter selector.
func ForTag(tag string) (parking.NormalizeFunc, error) {
	fn, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, tag)
	}
	return fn, nil
}
