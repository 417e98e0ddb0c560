package form

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/openterra/tilegate/internal/model"
)

type stubResolver struct {
	lastReq model.TileRequest
	calls   int
	result  model.TileResult
}

func (s *stubResolver) GetTile(_ context.Context, req model.TileRequest) model.TileResult {
	s.calls++
	s.lastReq = req
	return s.result
}

func newTestHandler(res *stubResolver) *Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), res)
}

func submit(t *testing.T, h *Handler, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestShow_RendersEmptyForm(t *testing.T) {
	h := newTestHandler(&stubResolver{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	page := rec.Body.String()
	for _, field := range []string{"asset_id", "vis_params", "start_date", "end_date", "bbox"} {
		if !strings.Contains(page, `name="`+field+`"`) {
			t.Fatalf("form missing field %q", field)
		}
	}
	if strings.Contains(page, "<pre>") {
		t.Fatal("empty form rendered a result block")
	}
}

func TestSubmit_SuccessShowsTileURL(t *testing.T) {
	res := &stubResolver{result: model.TileResult{TileURL: "https://tiles.example/m1/tiles/{z}/{x}/{y}"}}
	h := newTestHandler(res)

	rec := submit(t, h, url.Values{
		"asset_id":   {"USGS/SRTMGL1_003"},
		"vis_params": {`{"min":0,"max":5000}`},
		"bbox":       {" -122.5, 37.5, -122.0, 38.0 "},
	})

	if !strings.Contains(rec.Body.String(), res.result.TileURL) {
		t.Fatalf("result missing from page: %s", rec.Body.String())
	}
	if res.lastReq.AssetID != "USGS/SRTMGL1_003" {
		t.Fatalf("asset id = %q", res.lastReq.AssetID)
	}
	// vis text goes through as a raw string; the pipeline parses it
	if res.lastReq.VisSource != `{"min":0,"max":5000}` {
		t.Fatalf("vis source = %#v", res.lastReq.VisSource)
	}
	if len(res.lastReq.BBox) != 4 || res.lastReq.BBox[0] != -122.5 {
		t.Fatalf("bbox = %v", res.lastReq.BBox)
	}
}

func TestSubmit_FailureTextRendered(t *testing.T) {
	res := &stubResolver{result: model.TileResult{Failure: "Error: asset not found: missing/asset"}}
	h := newTestHandler(res)

	rec := submit(t, h, url.Values{"asset_id": {"missing/asset"}})
	if !strings.Contains(rec.Body.String(), res.result.Failure) {
		t.Fatalf("failure missing from page: %s", rec.Body.String())
	}
}

func TestSubmit_NonNumericBBoxShortCircuits(t *testing.T) {
	res := &stubResolver{}
	h := newTestHandler(res)

	rec := submit(t, h, url.Values{
		"asset_id": {"some/image"},
		"bbox":     {"west,south,east,north"},
	})

	if !strings.Contains(rec.Body.String(), bboxParseError) {
		t.Fatalf("parse error missing from page: %s", rec.Body.String())
	}
	if res.calls != 0 {
		t.Fatalf("resolver called %d times on unparseable bbox", res.calls)
	}
}

func TestSubmit_WrongBBoxCountReachesPipeline(t *testing.T) {
	res := &stubResolver{result: model.TileResult{Failure: "Error: invalid bounding box: bbox needs exactly 4 values (west,south,east,north), got 2"}}
	h := newTestHandler(res)

	submit(t, h, url.Values{
		"asset_id": {"some/image"},
		"bbox":     {"1,2"},
	})

	// numeric but wrong arity is the filter stage's call, not the form's
	if res.calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", res.calls)
	}
	if len(res.lastReq.BBox) != 2 {
		t.Fatalf("bbox = %v", res.lastReq.BBox)
	}
}

func TestSubmit_EmptyOptionalFields(t *testing.T) {
	res := &stubResolver{result: model.TileResult{TileURL: "u"}}
	h := newTestHandler(res)

	submit(t, h, url.Values{"asset_id": {"some/image"}})

	if res.lastReq.VisSource != nil {
		t.Fatalf("vis source = %#v, want nil", res.lastReq.VisSource)
	}
	if res.lastReq.BBox != nil {
		t.Fatalf("bbox = %v, want nil", res.lastReq.BBox)
	}
}

func TestParseBBoxField(t *testing.T) {
	got, ok := parseBBoxField("-122.5,37.5,-122.0,38.0")
	if !ok || len(got) != 4 || got[3] != 38.0 {
		t.Fatalf("parse = %v %v", got, ok)
	}
	if _, ok := parseBBoxField("1,2,three,4"); ok {
		t.Fatal("accepted non-numeric component")
	}
	if got, ok := parseBBoxField(""); !ok || got != nil {
		t.Fatalf("empty field = %v %v, want nil true", got, ok)
	}
}
