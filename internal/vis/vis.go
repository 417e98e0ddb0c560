// Package vis canonicalizes visualization parameters before map registration.
package vis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openterra/tilegate/internal/model"
)

// Normalize turns any accepted source form into the canonical mapping.
// Absent and blank-string sources normalize to an empty mapping, never an
// error. A non-blank string must be a JSON object literal. The input map is
// never mutated; palette entries are validated and rewritten in the copy.
func Normalize(src any) (model.VisParams, error) {
	var m map[string]any

	switch v := src.(type) {
	case nil:
		return model.VisParams{}, nil
	case model.VisParams:
		m = v
	case map[string]any:
		m = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return model.VisParams{}, nil
		}
		if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
			return nil, fmt.Errorf("%w: expected a JSON object literal", model.ErrInvalidVisFormat)
		}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrJSONParse, err)
		}
	default:
		return nil, fmt.Errorf("%w: %T", model.ErrUnsupportedVisType, src)
	}

	out := make(model.VisParams, len(m))
	for k, v := range m {
		out[k] = v
	}

	if p, ok := out["palette"]; ok {
		colors, err := ValidatePalette(p)
		if err != nil {
			return nil, err
		}
		out["palette"] = colors
	}
	return out, nil
}
