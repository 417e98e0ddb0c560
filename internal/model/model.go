// Package model defines request, result and shared domain types for the gateway.
package model

import "fmt"

// BBox is a rectangular geographic extent in degrees.
type BBox struct {
	West, South float64
	East, North float64
}

func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.West, b.South, b.East, b.North)
}

// Sentinel dates substituted when one side of a temporal range is open.
const (
	OpenStartDate = "1970-01-01"
	OpenEndDate   = "2100-01-01"
)

// TemporalRange is an optional pair of ISO-8601 dates. An empty side means
// unbounded and is resolved to the fixed sentinel before filtering.
type TemporalRange struct {
	Start string
	End   string
}

func (r TemporalRange) Empty() bool { return r.Start == "" && r.End == "" }

// Resolved returns the range with open sides replaced by the sentinels.
func (r TemporalRange) Resolved() (start, end string) {
	start, end = r.Start, r.End
	if start == "" {
		start = OpenStartDate
	}
	if end == "" {
		end = OpenEndDate
	}
	return start, end
}

// VisParams is the canonical visualization mapping.
type VisParams map[string]any

// TileRequest carries the inputs of one resolution request. VisSource may be
// nil, a map[string]any, or a JSON object string; anything else is rejected
// during normalization.
type TileRequest struct {
	AssetID   string
	VisSource any
	StartDate string
	EndDate   string
	BBox      []float64
}

// TileResult is the uniform outcome both request surfaces render. Exactly one
// of TileURL and Failure is set; Failure always begins with the error marker.
type TileResult struct {
	TileURL string
	Failure string
}

func (r TileResult) OK() bool { return r.Failure == "" }
