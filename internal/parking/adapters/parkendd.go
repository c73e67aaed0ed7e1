// Package adapters holds the per-city normalization functions and the
// selector registry that maps configured adapter tags onto them. Each
// adapter is an independent pure function over one source's schema;
// adding a city never touches another city's mapping.
package adapters

import (
	"time"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// parkenDDStates maps the ParkenDD state vocabulary onto the canonical
// set. The upstream terms happen to be English, but they still go through
// an explicit table so an unexpected value lands on unknown instead of
// leaking through.
var parkenDDStates = map[string]parking.Status{
	"open":    parking.StatusOpen,
	"closed":  parking.StatusClosed,
	"nodata":  parking.StatusNoData,
	"unknown": parking.StatusUnknown,
}

// ParkenDD normalizes the ParkenDD aggregator format used by Basel and
// Zürich:
//
//	{
//	  "lots": [
//	    {"id": "baselparkhauscity", "name": "City",
//	     "free": 901, "total": 1114, "state": "open"}
//	  ],
//	  "last_updated": "2026-01-06T05:35:00"
//	}
func ParkenDD(city string, raw parking.RawPayload, now time.Time) *parking.Snapshot {
	if raw == nil {
		return nil
	}
	lots, ok := parking.ListField(raw, "lots")
	if !ok {
		return nil
	}

	updated := parking.StringField(raw, "last_updated", parking.CaptureTime(now))

	parkings := make(map[string]parking.Spot)
	for _, entry := range lots {
		lot, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := parking.StringField(lot, "id", "")
		if id == "" {
			continue
		}

		status, ok := parkenDDStates[parking.StringField(lot, "state", "")]
		if !ok {
			status = parking.StatusUnknown
		}

		parkings[id] = parking.Spot{
			ID:        id,
			Name:      parking.StringField(lot, "name", id),
			Free:      parking.IntField(lot, "free", 0),
			Total:     parking.IntField(lot, "total", 0),
			Status:    status,
			Timestamp: updated,
		}
	}

	return parking.NewSnapshot(city, parkings, updated)
}
