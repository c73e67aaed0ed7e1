package parking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Result reports how far one collection cycle got. It replaces a bare
// success boolean so that a swallowed persistence error is still visible
// to the orchestrator.
type Result int

const (
	// ResultOK: fetched, normalized and persisted.
	ResultOK Result = iota
	// ResultFetchFailed: the request, response status or body decode
	// failed; nothing was produced this cycle.
	ResultFetchFailed
	// ResultNoData: the payload was readable but carried no usable data;
	// nothing was persisted and nothing went wrong.
	ResultNoData
	// ResultPersistFailed: a snapshot was produced but writing it to disk
	// failed. The in-memory latest snapshot is still updated.
	ResultPersistFailed
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultFetchFailed:
		return "fetch_failed"
	case ResultNoData:
		return "no_data"
	case ResultPersistFailed:
		return "persist_failed"
	default:
		return "unknown"
	}
}

// Success reports whether the cycle completed without anything going
// wrong. A no-data cycle counts: the upstream simply had nothing for us.
func (r Result) Success() bool {
	return r == ResultOK || r == ResultNoData
}

var errBadStatus = errors.New("unexpected status code")

// SnapshotWriter persists one snapshot and returns where it landed.
type SnapshotWriter interface {
	Save(snapshot *Snapshot) (string, error)
}

// LatestWriter retains the most recent snapshot per city.
type LatestWriter interface {
	SetLatest(snapshot *Snapshot)
}

// Collector binds one city's identity, endpoint and adapter to the
// shared fetch/persist steps. Collectors share no mutable state; each
// writes only under its own city directory.
type Collector struct {
	cityID    string
	url       string
	normalize NormalizeFunc

	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	files   SnapshotWriter
	latest  LatestWriter
	log     *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewCollector creates a collector for one city. latest may be nil when
// no status API is running.
func NewCollector(cityID, cityName, url string, normalize NormalizeFunc, client *http.Client, files SnapshotWriter, latest LatestWriter, logger *slog.Logger) *Collector {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cityID,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Collector{
		cityID:    cityID,
		url:       url,
		normalize: normalize,
		client:    client,
		breaker:   cb,
		files:     files,
		latest:    latest,
		log:       logger.With("city", cityID, "name", cityName),
		now:       time.Now,
	}
}

// Collect runs one fetch → normalize → persist cycle. It never panics
// out: a misbehaving source is logged and reported, not propagated, so
// the orchestrator's loop survives any single city.
func (c *Collector) Collect(ctx context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("collection panicked", "panic", r)
			result = ResultFetchFailed
		}
	}()

	raw, err := c.fetch(ctx)
	if err != nil {
		c.log.Error("fetch failed", "url", c.url, "err", err)
		return ResultFetchFailed
	}

	snapshot := c.normalize(c.cityID, raw, c.now())
	if snapshot == nil {
		c.log.Warn("no usable data in payload")
		return ResultNoData
	}

	if c.latest != nil {
		c.latest.SetLatest(snapshot)
	}

	path, err := c.files.Save(snapshot)
	if err != nil {
		// Persistence is best-effort; the failure is surfaced through the
		// result, not an abort.
		c.log.Error("saving snapshot failed", "err", err)
		return ResultPersistFailed
	}

	c.log.Info("snapshot saved", "path", path, "parkings", len(snapshot.Data.Parkings))
	return ResultOK
}

// fetch performs the single GET of the cycle through the circuit
// breaker. There are no retries; a failed cycle waits for the next one.
func (c *Collector) fetch(ctx context.Context) (RawPayload, error) {
	payload, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
		}

		// Any JSON shape is accepted; adapters treat a non-object
		// document like a payload with no usable container.
		var doc any
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		raw, _ := doc.(map[string]any)
		return RawPayload(raw), nil
	})
	if err != nil {
		return nil, err
	}

	raw, ok := payload.(RawPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return raw, nil
}
