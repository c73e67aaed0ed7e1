package adapters

import (
	"time"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// Luzern normalizes the Luzern PLS API, which already serves an envelope
// close to the canonical one:
//
//	{
//	  "status": "success",
//	  "data": {
//	    "time": "2026-01-06T07:30:00+01:00",
//	    "parkings": {
//	      "P1": {"description": "Altstadt", "vacancy": 12, "capacity": 80,
//	             "opened": true, "maintenance": false,
//	             "datestamp": "2026-01-06T07:29:55+01:00"}
//	    }
//	  }
//	}
//
// A facility counts as open only while it is opened and not under
// maintenance.
func Luzern(city string, raw parking.RawPayload, now time.Time) *parking.Snapshot {
	if raw == nil || parking.StringField(raw, "status", "") != "success" {
		return nil
	}
	data, ok := parking.MapField(raw, "data")
	if !ok {
		return nil
	}
	rawParkings, ok := parking.MapField(data, "parkings")
	if !ok {
		return nil
	}

	parkings := make(map[string]parking.Spot)
	for id, entry := range rawParkings {
		if id == "" {
			continue
		}
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		status := parking.StatusClosed
		if parking.BoolField(fields, "opened", true) && !parking.BoolField(fields, "maintenance", false) {
			status = parking.StatusOpen
		}

		parkings[id] = parking.Spot{
			ID:        id,
			Name:      parking.StringField(fields, "description", id),
			Free:      parking.IntField(fields, "vacancy", 0),
			Total:     parking.IntField(fields, "capacity", 0),
			Status:    status,
			Timestamp: parking.StringField(fields, "datestamp", parking.CaptureTime(now)),
		}
	}

	return parking.NewSnapshot(city, parkings, parking.StringField(data, "time", parking.CaptureTime(now)))
}
