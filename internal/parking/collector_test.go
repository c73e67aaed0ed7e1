package parking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeWriter records saved snapshots in place of the file store.
type fakeWriter struct {
	saved []*Snapshot
	err   error
}

func (w *fakeWriter) Save(snapshot *Snapshot) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.saved = append(w.saved, snapshot)
	return "fake/path.json", nil
}

type fakeLatest struct {
	latest *Snapshot
}

func (l *fakeLatest) SetLatest(snapshot *Snapshot) { l.latest = snapshot }

// lotsNormalize is a minimal ParkenDD-shaped adapter for collector tests.
func lotsNormalize(city string, raw RawPayload, now time.Time) *Snapshot {
	if raw == nil {
		return nil
	}
	lots, ok := ListField(raw, "lots")
	if !ok {
		return nil
	}
	parkings := make(map[string]Spot)
	for _, entry := range lots {
		lot, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := StringField(lot, "id", "")
		if id == "" {
			continue
		}
		parkings[id] = Spot{ID: id, Name: StringField(lot, "name", id), Status: StatusOpen}
	}
	return NewSnapshot(city, parkings, StringField(raw, "last_updated", CaptureTime(now)))
}

func newTestCollector(url string, client *http.Client, files *fakeWriter, latest *fakeLatest) *Collector {
	if client == nil {
		client = &http.Client{Timeout: time.Second}
	}
	var lw LatestWriter
	if latest != nil {
		lw = latest
	}
	return NewCollector("basel", "Basel", url, lotsNormalize, client, files, lw, testLogger)
}

func TestCollectOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lots":[{"id":"baselparkhauscity","name":"City"}],"last_updated":"2026-01-06T05:35:00"}`))
	}))
	defer srv.Close()

	files := &fakeWriter{}
	latest := &fakeLatest{}
	c := newTestCollector(srv.URL, nil, files, latest)

	if got := c.Collect(context.Background()); got != ResultOK {
		t.Fatalf("result = %s, want ok", got)
	}
	if len(files.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(files.saved))
	}
	if _, ok := files.saved[0].Data.Parkings["baselparkhauscity"]; !ok {
		t.Error("persisted snapshot is missing the facility")
	}
	if latest.latest == nil {
		t.Error("latest snapshot was not retained")
	}
}

func TestCollectFetchFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"lots": [`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			files := &fakeWriter{}
			c := newTestCollector(srv.URL, nil, files, nil)

			if got := c.Collect(context.Background()); got != ResultFetchFailed {
				t.Errorf("result = %s, want fetch_failed", got)
			}
			if len(files.saved) != 0 {
				t.Errorf("a failed fetch persisted %d snapshots", len(files.saved))
			}
		})
	}
}

func TestCollectTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	files := &fakeWriter{}
	client := &http.Client{Timeout: 20 * time.Millisecond}
	c := newTestCollector(srv.URL, client, files, nil)

	if got := c.Collect(context.Background()); got != ResultFetchFailed {
		t.Errorf("result = %s, want fetch_failed on timeout", got)
	}
	if len(files.saved) != 0 {
		t.Errorf("a timed-out fetch persisted %d snapshots", len(files.saved))
	}
}

func TestCollectNoData(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing container", `{"last_updated":"2026-01-06T05:35:00"}`},
		{"non-object document", `[1, 2, 3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			files := &fakeWriter{}
			c := newTestCollector(srv.URL, nil, files, nil)

			if got := c.Collect(context.Background()); got != ResultNoData {
				t.Errorf("result = %s, want no_data", got)
			}
			if len(files.saved) != 0 {
				t.Errorf("a no-data cycle persisted %d snapshots", len(files.saved))
			}
		})
	}
}

func TestCollectPersistFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lots":[{"id":"p1"}]}`))
	}))
	defer srv.Close()

	files := &fakeWriter{err: errors.New("disk full")}
	latest := &fakeLatest{}
	c := newTestCollector(srv.URL, nil, files, latest)

	if got := c.Collect(context.Background()); got != ResultPersistFailed {
		t.Errorf("result = %s, want persist_failed", got)
	}
	// The write failure is soft: the in-memory latest snapshot still
	// updates.
	if latest.latest == nil {
		t.Error("latest snapshot was not retained on persist failure")
	}
}

func TestResultSuccess(t *testing.T) {
	cases := map[Result]bool{
		ResultOK:            true,
		ResultNoData:        true,
		ResultFetchFailed:   false,
		ResultPersistFailed: false,
	}
	for r, want := range cases {
		if got := r.Success(); got != want {
			t.Errorf("%s.Success() = %v, want %v", r, got, want)
		}
	}
}
