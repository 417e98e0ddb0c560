// Package router serves the programmatic JSON surface of the gateway.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openterra/tilegate/internal/model"
	"github.com/openterra/tilegate/internal/observability"
)

// TileResolver is the pipeline contract the request surfaces depend on.
type TileResolver interface {
	GetTile(ctx context.Context, req model.TileRequest) model.TileResult
}

type tileRequestBody struct {
	AssetID   string         `json:"asset_id"`
	VisParams map[string]any `json:"vis_params"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	BBox      []float64      `json:"bbox"`
}

// HandleTile serves POST /tile. Pipeline failures carry the fixed error
// marker and map to 400; anything else is a server error.
func HandleTile(logger *slog.Logger, res TileResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			observability.ObserveHTTP(r.Method, "/tile", sw.code, time.Since(start).Seconds())
		}()

		var body tileRequestBody
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&body); err != nil {
			writeDetail(sw, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if strings.TrimSpace(body.AssetID) == "" {
			writeDetail(sw, http.StatusBadRequest, "asset_id is required")
			return
		}

		req := model.TileRequest{
			AssetID:   body.AssetID,
			StartDate: body.StartDate,
			EndDate:   body.EndDate,
			BBox:      body.BBox,
		}
		if body.VisParams != nil {
			req.VisSource = body.VisParams
		}

		result := res.GetTile(r.Context(), req)
		if !result.OK() {
			if strings.HasPrefix(result.Failure, model.ErrorMarker) {
				writeDetail(sw, http.StatusBadRequest, result.Failure)
				return
			}
			logger.LogAttrs(r.Context(), slog.LevelError, "unexpected pipeline failure shape",
				slog.String("failure", result.Failure))
			writeDetail(sw, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(sw, http.StatusOK, map[string]string{"tile_url": result.TileURL})
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
