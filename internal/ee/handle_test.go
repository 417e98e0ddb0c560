package ee

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/openterra/tilegate/internal/model"
)

func TestHandles_LoadExpressions(t *testing.T) {
	cases := []struct {
		h        Handle
		function string
		kind     AssetKind
	}{
		{NewImage("USGS/SRTMGL1_003"), "Image.load", KindImage},
		{NewImageCollection("COPERNICUS/S2_SR"), "ImageCollection.load", KindImageCollection},
		{NewFeatureTable("TIGER/2018/States"), "Collection.loadTable", KindFeatureTable},
	}
	for _, c := range cases {
		if c.h.Kind() != c.kind {
			t.Fatalf("kind = %v, want %v", c.h.Kind(), c.kind)
		}
		e := c.h.Expression()
		if e.Function != c.function {
			t.Fatalf("function = %q, want %q", e.Function, c.function)
		}
		if e.Arguments["id"] == "" {
			t.Fatalf("load expression missing id: %+v", e)
		}
	}
}

func TestFilterDate_WrapsCollection(t *testing.T) {
	c := NewImageCollection("some/collection")
	filtered := c.FilterDate("2023-01-01", "2023-12-31")

	e := filtered.Expression()
	if e.Function != "Collection.filterDate" {
		t.Fatalf("function = %q", e.Function)
	}
	if e.Arguments["start"] != "2023-01-01" || e.Arguments["end"] != "2023-12-31" {
		t.Fatalf("unexpected date args: %+v", e.Arguments)
	}
	inner, ok := e.Arguments["collection"].(Expr)
	if !ok || inner.Function != "ImageCollection.load" {
		t.Fatalf("inner expression = %#v", e.Arguments["collection"])
	}

	// the original handle is unchanged
	if c.Expression().Function != "ImageCollection.load" {
		t.Fatal("filter mutated the source handle")
	}
}

func TestClip_ReturnsImageWithGeometry(t *testing.T) {
	img := NewImage("some/image").Clip(model.BBox{West: -122.5, South: 37.5, East: -122.0, North: 38.0})

	if img.Kind() != KindImage {
		t.Fatalf("kind = %v, want image", img.Kind())
	}
	e := img.Expression()
	if e.Function != "Image.clip" {
		t.Fatalf("function = %q", e.Function)
	}

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"Polygon"`) {
		t.Fatalf("clip geometry is not a polygon: %s", raw)
	}
}

func TestFilterBounds_Table(t *testing.T) {
	tbl := NewFeatureTable("some/table").FilterBounds(model.BBox{West: 11, South: 55, East: 12, North: 56})
	if tbl.Kind() != KindFeatureTable {
		t.Fatalf("kind = %v", tbl.Kind())
	}
	if tbl.Expression().Function != "Collection.filterBounds" {
		t.Fatalf("function = %q", tbl.Expression().Function)
	}
}
