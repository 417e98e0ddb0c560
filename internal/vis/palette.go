package vis

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/openterra/tilegate/internal/model"
)

// Named palettes accepted by the backend, expanded to explicit hex stops.
var namedPalettes = map[string][]string{
	"terrain":  {"333399", "0d7fe3", "00be90", "55dd77", "c6f48e", "e3db8a", "aa926b", "8e6e67", "b2a5a0", "ffffff"},
	"viridis":  {"440154", "46327e", "365c8d", "277f8e", "1fa187", "4ac16d", "a0da39", "fde725"},
	"plasma":   {"0d0887", "5b02a3", "9a179b", "cb4678", "eb7852", "fbb32f", "f0f921"},
	"inferno":  {"000004", "320a5a", "781c6d", "bb3754", "ec6824", "fbb41a", "fcffa4"},
	"magma":    {"000004", "2c115f", "711f81", "b63679", "ee605e", "fdae78", "fcfdbf"},
	"gray":     {"000000", "444444", "888888", "cccccc", "ffffff"},
	"jet":      {"00007f", "0000ff", "00ffff", "7fff7f", "ffff00", "ff0000", "7f0000"},
	"coolwarm": {"3b4cc0", "7b9ff9", "c0d4f5", "f2cbb7", "ee8468", "b40426"},
}

// ValidatePalette normalizes a palette specification to a list of lowercase
// 6-digit hex strings without the leading '#'. Accepted forms: a known
// palette name, a comma-separated string of colors, or a list of color
// strings.
func ValidatePalette(p any) ([]string, error) {
	switch v := p.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, fmt.Errorf("%w: palette must not be empty", model.ErrInvalidPalette)
		}
		if stops, ok := namedPalettes[strings.ToLower(s)]; ok {
			out := make([]string, len(stops))
			copy(out, stops)
			return out, nil
		}
		return normalizeColors(strings.Split(s, ","))
	case []string:
		return normalizeColors(v)
	case []any:
		colors := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: palette entries must be strings, got %T", model.ErrInvalidPalette, e)
			}
			colors = append(colors, s)
		}
		return normalizeColors(colors)
	default:
		return nil, fmt.Errorf("%w: unsupported palette form %T", model.ErrInvalidPalette, p)
	}
}

func normalizeColors(colors []string) ([]string, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: palette must not be empty", model.ErrInvalidPalette)
	}
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		h, err := normalizeColor(c)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func normalizeColor(s string) (string, error) {
	c := strings.TrimSpace(s)
	if c == "" {
		return "", fmt.Errorf("%w: empty color", model.ErrInvalidPalette)
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	col, err := colorful.Hex(strings.ToLower(c))
	if err != nil {
		return "", fmt.Errorf("%w: unrecognized color %q", model.ErrInvalidPalette, s)
	}
	return strings.TrimPrefix(col.Hex(), "#"), nil
}
