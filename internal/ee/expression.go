package ee

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/openterra/tilegate/internal/model"
)

// Expr is one node of the expression graph serialized into map requests.
// Arguments may nest further Expr values.
type Expr struct {
	Function  string         `json:"functionName"`
	Arguments map[string]any `json:"arguments"`
}

func invoke(function string, args map[string]any) Expr {
	return Expr{Function: function, Arguments: args}
}

func load(function, assetID string) Expr {
	return invoke(function, map[string]any{"id": assetID})
}

// boundsGeometry turns a bbox into the GeoJSON polygon the backend's filter
// and clip functions take. Bounds are passed through as given; the backend
// owns any ordering or wrap-around interpretation.
func boundsGeometry(b model.BBox) *geojson.Geometry {
	bound := orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
	return geojson.NewGeometry(bound.ToPolygon())
}
