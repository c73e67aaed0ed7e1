package parking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrUnknownCity is returned when a requested city is not configured.
	ErrUnknownCity = errors.New("unknown city")
	// ErrCityDisabled is returned when a requested city is configured but
	// switched off.
	ErrCityDisabled = errors.New("city disabled")
)

// City is one configured collection target.
type City struct {
	ID      string
	Name    string
	URL     string
	Enabled bool
	Adapter string
}

// AdapterResolver turns a configured adapter selector into its
// normalization function.
type AdapterResolver func(tag string) (NormalizeFunc, error)

// Service resolves configured cities to collectors and runs collection
// cycles over them. Cities are always collected strictly one after
// another; a hanging upstream delays the next city by at most the
// client's request timeout.
type Service struct {
	cities     map[string]City
	order      []string
	collectors map[string]*Collector

	// invalid holds adapter resolution failures per city; those cities
	// are reported as failed each cycle without touching the others.
	invalid map[string]error

	log *slog.Logger
}

// NewService builds one collector per enabled city. A city whose adapter
// selector cannot be resolved stays in the registry and fails its cycles
// individually instead of failing construction.
func NewService(cities []City, resolve AdapterResolver, client *http.Client, files SnapshotWriter, latest LatestWriter, logger *slog.Logger) *Service {
	s := &Service{
		cities:     make(map[string]City, len(cities)),
		collectors: make(map[string]*Collector),
		invalid:    make(map[string]error),
		log:        logger,
	}

	for _, city := range cities {
		s.cities[city.ID] = city
		s.order = append(s.order, city.ID)

		if !city.Enabled {
			continue
		}
		normalize, err := resolve(city.Adapter)
		if err != nil {
			logger.Error("adapter resolution failed", "city", city.ID, "err", err)
			s.invalid[city.ID] = err
			continue
		}
		s.collectors[city.ID] = NewCollector(city.ID, city.Name, city.URL, normalize, client, files, latest, logger)
	}
	sort.Strings(s.order)

	return s
}

// Cities lists the configured cities in id order.
func (s *Service) Cities() []City {
	cities := make([]City, 0, len(s.order))
	for _, id := range s.order {
		cities = append(cities, s.cities[id])
	}
	return cities
}

// CollectCity runs one cycle for a single city. Unknown, disabled and
// misconfigured cities are reported through the error; the Result is
// meaningful only when the error is nil.
func (s *Service) CollectCity(ctx context.Context, id string) (Result, error) {
	city, ok := s.cities[id]
	if !ok {
		return ResultFetchFailed, fmt.Errorf("%w: %q", ErrUnknownCity, id)
	}
	if !city.Enabled {
		return ResultFetchFailed, fmt.Errorf("%w: %q", ErrCityDisabled, id)
	}
	if err, bad := s.invalid[id]; bad {
		return ResultFetchFailed, err
	}
	return s.collectors[id].Collect(ctx), nil
}

// CollectAll runs one cycle over every enabled city, sequentially, and
// returns the per-city outcome. One misbehaving source never stops the
// cycle for the rest.
func (s *Service) CollectAll(ctx context.Context) map[string]Result {
	log := s.log.With("run", uuid.NewString())

	results := make(map[string]Result)
	for _, id := range s.order {
		city := s.cities[id]
		if !city.Enabled {
			log.Info("skipping disabled city", "city", id)
			continue
		}
		if err, bad := s.invalid[id]; bad {
			log.Error("skipping misconfigured city", "city", id, "err", err)
			results[id] = ResultFetchFailed
			continue
		}

		log.Info("collecting", "city", id, "name", city.Name)
		results[id] = s.collectors[id].Collect(ctx)
	}
	return results
}

// AllSuccess reports whether every city in a cycle came back without a
// failure. Used for the run-once exit code.
func AllSuccess(results map[string]Result) bool {
	for _, r := range results {
		if !r.Success() {
			return false
		}
	}
	return true
}
