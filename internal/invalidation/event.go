// Package invalidation defines the asset-update events that purge cached
// tile URLs.
package invalidation

import (
	"fmt"
	"strings"
	"time"
)

// Event describes an upstream change to a catalog asset. Any cached tile URL
// for the asset is stale once the event is observed.
type Event struct {
	Version int       `json:"version"`
	Op      string    `json:"op"` // update|delete
	AssetID string    `json:"asset_id"`
	TS      time.Time `json:"ts"`
	Source  string    `json:"source,omitempty"`
}

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case "update", "delete":
	default:
		return fmt.Errorf("op must be update|delete")
	}
	if strings.TrimSpace(e.AssetID) == "" {
		return fmt.Errorf("asset_id is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	return nil
}
