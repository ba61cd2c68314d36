// Package storage holds forecast snapshots keyed by area, with in-memory
// and Redis backends behind one interface.
package storage

import "time"

// Snapshot is one stored forecast run for an area.
type Snapshot struct {
	Area        string    `json:"area"`
	Kind        string    `json:"kind"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`

	// AnchorDate and AnchorValue are the last actual observation the
	// cumulative forecast is anchored at.
	AnchorDate  time.Time `json:"anchorDate"`
	AnchorValue float64   `json:"anchorValue"`

	Params     []float64 `json:"params"`
	Daily      []float64 `json:"daily"`
	Cumulative []float64 `json:"cumulative"`
}

// Store persists the latest snapshot per area.
type Store interface {
	Put(Snapshot) error
	GetLatest(area string) (Snapshot, bool, error)
}
