package adapters

import (
	"strings"
	"time"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// stGallenStates maps the German phstate vocabulary of the St. Gallen
// open-data portal onto the canonical set.
var stGallenStates = map[string]parking.Status{
	"offen":           parking.StatusOpen,
	"geschlossen":     parking.StatusClosed,
	"nicht verfügbar": parking.StatusNoData,
}

// StGallen normalizes the St. Gallen open-data records format:
//
//	{
//	  "nhits": 16,
//	  "records": [
//	    {"fields": {"phid": "P23", "phname": "Manor", "phstate": "offen",
//	                "shortfree": 130, "shortmax": 132,
//	                "zeitpunkt": "2026-01-06T05:36:05+00:00"}}
//	  ]
//	}
//
// The source has no document-level "last updated" field, so the snapshot
// timestamp is the capture time.
func StGallen(city string, raw parking.RawPayload, now time.Time) *parking.Snapshot {
	if raw == nil {
		return nil
	}
	records, ok := parking.ListField(raw, "records")
	if !ok {
		return nil
	}

	parkings := make(map[string]parking.Spot)
	for _, entry := range records {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		fields, ok := parking.MapField(record, "fields")
		if !ok {
			continue
		}
		id := parking.StringField(fields, "phid", "")
		if id == "" {
			continue
		}

		state := strings.ToLower(parking.StringField(fields, "phstate", ""))
		status, ok := stGallenStates[state]
		if !ok {
			status = parking.StatusUnknown
		}

		parkings[id] = parking.Spot{
			ID:        id,
			Name:      parking.StringField(fields, "phname", id),
			Free:      parking.IntField(fields, "shortfree", 0),
			Total:     parking.IntField(fields, "shortmax", 0),
			Status:    status,
			Timestamp: parking.StringField(fields, "zeitpunkt", parking.CaptureTime(now)),
		}
	}

	return parking.NewSnapshot(city, parkings, parking.CaptureTime(now))
}
