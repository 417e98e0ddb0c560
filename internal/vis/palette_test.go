package vis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/openterra/tilegate/internal/model"
)

func TestValidatePalette_NamedPalette(t *testing.T) {
	got, err := ValidatePalette("terrain")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("named palette expanded to nothing")
	}

	// case-insensitive
	upper, err := ValidatePalette("Terrain")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, upper) {
		t.Fatalf("case sensitivity: %v vs %v", got, upper)
	}
}

func TestValidatePalette_ColorLists(t *testing.T) {
	want := []string{"ff0000", "00ff00", "0000ff"}

	got, err := ValidatePalette([]string{"#FF0000", "00ff00", "#0000FF"})
	if err != nil {
		t.Fatalf("[]string: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("[]string = %v, want %v", got, want)
	}

	// JSON-decoded palettes arrive as []any
	got, err = ValidatePalette([]any{"ff0000", "00ff00", "0000ff"})
	if err != nil {
		t.Fatalf("[]any: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("[]any = %v, want %v", got, want)
	}

	got, err = ValidatePalette("ff0000,00ff00,0000ff")
	if err != nil {
		t.Fatalf("comma string: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("comma string = %v, want %v", got, want)
	}
}

func TestValidatePalette_ShortHex(t *testing.T) {
	got, err := ValidatePalette([]string{"#f00"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"ff0000"}) {
		t.Fatalf("got %v", got)
	}
}

func TestValidatePalette_Rejections(t *testing.T) {
	cases := []any{
		"no-such-palette",
		"",
		[]string{},
		[]string{"ff0000", "not-a-color"},
		[]any{"ff0000", 7},
		map[string]any{"oops": true},
		42,
	}
	for _, c := range cases {
		if _, err := ValidatePalette(c); !errors.Is(err, model.ErrInvalidPalette) {
			t.Fatalf("ValidatePalette(%#v): err = %v, want ErrInvalidPalette", c, err)
		}
	}
}
