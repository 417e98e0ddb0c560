package pipeline

import (
	"fmt"

	"github.com/openterra/tilegate/internal/ee"
	"github.com/openterra/tilegate/internal/model"
)

// ApplyFilters applies the optional temporal range and spatial bounds to a
// handle, temporal first. Filtering only narrows the data view; collections
// and tables get a bounds-intersection filter while an image is clipped to
// the bounding geometry.
func ApplyFilters(h ee.Handle, temporal model.TemporalRange, bbox []float64) (ee.Handle, error) {
	if !temporal.Empty() {
		c, ok := h.(ee.ImageCollection)
		if !ok {
			return nil, fmt.Errorf("%w: date filtering only supported for collections", model.ErrUnsupportedFilter)
		}
		start, end := temporal.Resolved()
		h = c.FilterDate(start, end)
	}

	if bbox != nil {
		if len(bbox) != 4 {
			return nil, fmt.Errorf("%w: bbox needs exactly 4 values (west,south,east,north), got %d",
				model.ErrInvalidBounds, len(bbox))
		}
		// No ordering check on the corners; the backend owns interpretation
		// of inverted or antimeridian-crossing boxes.
		b := model.BBox{West: bbox[0], South: bbox[1], East: bbox[2], North: bbox[3]}

		switch v := h.(type) {
		case ee.ImageCollection:
			h = v.FilterBounds(b)
		case ee.FeatureTable:
			h = v.FilterBounds(b)
		case ee.Image:
			h = v.Clip(b)
		default:
			return nil, fmt.Errorf("%w: bounds filtering not supported for %s", model.ErrUnsupportedFilter, h.Kind())
		}
	}

	return h, nil
}
