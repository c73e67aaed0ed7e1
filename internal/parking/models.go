package parking

// Status is the canonical availability state of a parking facility.
// Every upstream vocabulary is mapped into this set; anything an adapter
// does not recognize collapses to StatusUnknown.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusNoData  Status = "nodata"
	StatusUnknown Status = "unknown"
)

// Spot is the canonical record for a single parking facility.
// Timestamps stay strings: values sourced from upstream are copied
// verbatim so that normalizing the same payload twice yields identical
// output.
type Spot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Free      int    `json:"free"`
	Total     int    `json:"total"`
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
}

// SnapshotData holds the per-facility records of one collection cycle,
// keyed by Spot.ID.
type SnapshotData struct {
	Parkings map[string]Spot `json:"parkings"`
}

// Snapshot is the canonical envelope written once per successful
// collection cycle per city. It is immutable after creation; every cycle
// produces a fresh, independent snapshot.
type Snapshot struct {
	Status    string       `json:"status"`
	City      string       `json:"city"`
	Data      SnapshotData `json:"data"`
	Timestamp string       `json:"timestamp"`
}

// NewSnapshot builds a success envelope for a city.
func NewSnapshot(city string, parkings map[string]Spot, timestamp string) *Snapshot {
	return &Snapshot{
		Status:    "success",
		City:      city,
		Data:      SnapshotData{Parkings: parkings},
		Timestamp: timestamp,
	}
}
