// Package form serves the interactive HTML surface: five free-text fields
// mapped 1:1 onto the pipeline inputs.
package form

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/openterra/tilegate/internal/model"
	"github.com/openterra/tilegate/internal/router"
)

// Rendered instead of calling the pipeline when the bbox text is not numeric.
const bboxParseError = "Error: bbox must be comma-separated numbers (west,south,east,north)"

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>Tile URL Generator</title></head>
<body>
<h1>Tile URL Generator</h1>
<p>Supports images, image collections and feature tables. The resulting tile URL is suitable for basemap usage.</p>
<form method="post" action="/">
  <p><label>Asset ID<br><input name="asset_id" size="60" value="{{.AssetID}}" placeholder="e.g., USGS/SRTMGL1_003"></label></p>
  <p><label>Visualization parameters (JSON)<br><input name="vis_params" size="60" value="{{.VisParams}}" placeholder='{"min":0,"max":5000,"palette":"terrain"}'></label></p>
  <p><label>Start date (optional)<br><input name="start_date" size="20" value="{{.StartDate}}" placeholder="2023-01-01"></label></p>
  <p><label>End date (optional)<br><input name="end_date" size="20" value="{{.EndDate}}" placeholder="2023-12-31"></label></p>
  <p><label>Bounding box (optional, west,south,east,north)<br><input name="bbox" size="40" value="{{.BBox}}" placeholder="-122.5,37.5,-122.0,38.0"></label></p>
  <p><button type="submit">Get tile URL</button></p>
</form>
{{if .Result}}<pre>{{.Result}}</pre>{{end}}
</body>
</html>
`

type pageData struct {
	AssetID   string
	VisParams string
	StartDate string
	EndDate   string
	BBox      string
	Result    string
}

type Handler struct {
	logger *slog.Logger
	res    router.TileResolver
	tmpl   *template.Template
}

func New(logger *slog.Logger, res router.TileResolver) *Handler {
	return &Handler{
		logger: logger,
		res:    res,
		tmpl:   template.Must(template.New("form").Parse(pageTemplate)),
	}
}

// Show serves the empty form.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageData{})
}

// Submit runs the pipeline over the posted fields and re-renders the form
// with the result text.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	data := pageData{
		AssetID:   strings.TrimSpace(r.PostFormValue("asset_id")),
		VisParams: strings.TrimSpace(r.PostFormValue("vis_params")),
		StartDate: strings.TrimSpace(r.PostFormValue("start_date")),
		EndDate:   strings.TrimSpace(r.PostFormValue("end_date")),
		BBox:      strings.TrimSpace(r.PostFormValue("bbox")),
	}

	bbox, ok := parseBBoxField(data.BBox)
	if !ok {
		data.Result = bboxParseError
		h.render(w, r, data)
		return
	}

	req := model.TileRequest{
		AssetID:   data.AssetID,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		BBox:      bbox,
	}
	if data.VisParams != "" {
		req.VisSource = data.VisParams
	}

	result := h.res.GetTile(r.Context(), req)
	if result.OK() {
		data.Result = result.TileURL
	} else {
		data.Result = result.Failure
	}
	h.render(w, r, data)
}

// parseBBoxField splits a comma-separated bbox string. Only numeric parsing
// is checked here; the count rule lives in the filter stage so both surfaces
// report it identically.
func parseBBoxField(s string) ([]float64, bool) {
	if s == "" {
		return nil, true
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "render form", slog.String("err", err.Error()))
	}
}
