package vis

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/openterra/tilegate/internal/model"
)

func TestNormalize_AbsentAndBlank(t *testing.T) {
	for _, src := range []any{nil, "", "   ", "\t\n"} {
		got, err := Normalize(src)
		if err != nil {
			t.Fatalf("Normalize(%#v): unexpected err: %v", src, err)
		}
		if len(got) != 0 {
			t.Fatalf("Normalize(%#v) = %v, want empty mapping", src, got)
		}

		// normalizing twice yields the same mapping
		again, err := Normalize(got)
		if err != nil {
			t.Fatalf("second Normalize: %v", err)
		}
		if !reflect.DeepEqual(got, again) {
			t.Fatalf("not idempotent: %v vs %v", got, again)
		}
	}
}

func TestNormalize_StringAndParsedFormsAgree(t *testing.T) {
	s := `{"min":0,"max":5000,"bands":["B4","B3","B2"]}`

	var parsed map[string]any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fromString, err := Normalize(s)
	if err != nil {
		t.Fatalf("Normalize(string): %v", err)
	}
	fromMap, err := Normalize(parsed)
	if err != nil {
		t.Fatalf("Normalize(map): %v", err)
	}
	if !reflect.DeepEqual(fromString, fromMap) {
		t.Fatalf("string and parsed forms disagree: %v vs %v", fromString, fromMap)
	}
}

func TestNormalize_StringMustBeObjectLiteral(t *testing.T) {
	_, err := Normalize("not-json")
	if !errors.Is(err, model.ErrInvalidVisFormat) {
		t.Fatalf("err = %v, want ErrInvalidVisFormat", err)
	}

	_, err = Normalize(`{"min":0`)
	if !errors.Is(err, model.ErrInvalidVisFormat) {
		t.Fatalf("unclosed literal: err = %v, want ErrInvalidVisFormat", err)
	}

	// enclosed but invalid JSON
	_, err = Normalize(`{min: oops}`)
	if !errors.Is(err, model.ErrJSONParse) {
		t.Fatalf("err = %v, want ErrJSONParse", err)
	}
}

func TestNormalize_UnsupportedSourceType(t *testing.T) {
	_, err := Normalize(42)
	if !errors.Is(err, model.ErrUnsupportedVisType) {
		t.Fatalf("err = %v, want ErrUnsupportedVisType", err)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"min": 0.0, "palette": "gray"}
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got, ok := in["palette"].(string); !ok || got != "gray" {
		t.Fatalf("input mutated: palette = %#v", in["palette"])
	}
	if _, ok := out["palette"].([]string); !ok {
		t.Fatalf("output palette not normalized: %#v", out["palette"])
	}
}

func TestNormalize_InvalidPalette(t *testing.T) {
	_, err := Normalize(map[string]any{"palette": "no-such-palette"})
	if !errors.Is(err, model.ErrInvalidPalette) {
		t.Fatalf("err = %v, want ErrInvalidPalette", err)
	}
}
