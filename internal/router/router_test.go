package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

func postTile(t *testing.T, res *stubResolver, body string) *httptest.ResponseRecorder {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := HandleTile(log, res)
	req := httptest.NewRequest(http.MethodPost, "/tile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleTile_Success(t *testing.T) {
	res := &stubResolver{result: model.TileResult{TileURL: "https://tiles.example/m1/tiles/{z}/{x}/{y}"}}
	rec := postTile(t, res, `{
		"asset_id": "COPERNICUS/S2_SR",
		"vis_params": {"min": 0, "max": 3000},
		"start_date": "2023-01-01",
		"end_date": "2023-12-31",
		"bbox": [-122.5, 37.5, -122.0, 38.0]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["tile_url"]; got != res.result.TileURL {
		t.Fatalf("tile_url = %q", got)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}

	if res.lastReq.AssetID != "COPERNICUS/S2_SR" || res.lastReq.StartDate != "2023-01-01" {
		t.Fatalf("request not forwarded: %+v", res.lastReq)
	}
	vis, ok := res.lastReq.VisSource.(map[string]any)
	if !ok || vis["max"] != 3000.0 {
		t.Fatalf("vis source = %#v", res.lastReq.VisSource)
	}
	if len(res.lastReq.BBox) != 4 {
		t.Fatalf("bbox = %v", res.lastReq.BBox)
	}
}

func TestHandleTile_OmittedVisStaysNil(t *testing.T) {
	res := &stubResolver{result: model.TileResult{TileURL: "u"}}
	postTile(t, res, `{"asset_id": "some/image"}`)

	if res.lastReq.VisSource != nil {
		t.Fatalf("vis source = %#v, want nil", res.lastReq.VisSource)
	}
}

func TestHandleTile_PipelineFailureIs400(t *testing.T) {
	res := &stubResolver{result: model.TileResult{Failure: "Error: asset not found: missing/asset"}}
	rec := postTile(t, res, `{"asset_id": "missing/asset"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["detail"]; got != res.result.Failure {
		t.Fatalf("detail = %q, want the failure text verbatim", got)
	}
}

func TestHandleTile_UnmarkedFailureIs500(t *testing.T) {
	res := &stubResolver{result: model.TileResult{Failure: "something leaked"}}
	rec := postTile(t, res, `{"asset_id": "some/image"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["detail"]; got != "internal server error" {
		t.Fatalf("detail = %q", got)
	}
}

func TestHandleTile_MissingAssetID(t *testing.T) {
	res := &stubResolver{}
	for _, body := range []string{`{}`, `{"asset_id": "  "}`} {
		rec := postTile(t, res, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
		if got := decodeBody(t, rec)["detail"]; got != "asset_id is required" {
			t.Fatalf("detail = %q", got)
		}
	}
	if res.calls != 0 {
		t.Fatalf("resolver called %d times on invalid input", res.calls)
	}
}

func TestHandleTile_MalformedJSON(t *testing.T) {
	res := &stubResolver{}
	rec := postTile(t, res, `{"asset_id": `)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(decodeBody(t, rec)["detail"], "invalid request body") {
		t.Fatalf("detail = %q", decodeBody(t, rec)["detail"])
	}
	if res.calls != 0 {
		t.Fatal("resolver called on malformed body")
	}
}
