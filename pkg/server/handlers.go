package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/buildinfo"
	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/exposure"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"features": s.features.List(),
	})
}

type tablesResponse struct {
	Papers []border.PaperSize  `json:"papers"`
	Ratios []border.RatioEntry `json:"aspect_ratios"`
	Easels []border.EaselSize  `json:"easels"`
	Films  []exposure.Film     `json:"films,omitempty"`
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	resp := tablesResponse{
		Papers: border.PaperSizes,
		Ratios: border.AspectRatios,
		Easels: border.EaselSizes,
	}
	if s.features.Exposure {
		resp.Films = exposure.Films
	}
	writeJSON(w, http.StatusOK, resp)
}

// borderRequest is a calculator input, or a share code standing in for one.
type borderRequest struct {
	border.Input
	Code string `json:"code,omitempty"`
}

func (req borderRequest) resolve() (border.Input, error) {
	if req.Code == "" {
		return req.Input, nil
	}
	p, err := preset.Decode(req.Code)
	if err != nil {
		return border.Input{}, err
	}
	return p.Input(), nil
}

func (s *Server) handleBorder(w http.ResponseWriter, r *http.Request) {
	var req borderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.resolve()
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:   in,
		Formats: []string{pipeline.FormatJSON},
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.RenderHit)
	writeRaw(w, http.StatusOK, contentTypes[pipeline.FormatJSON], result.Artifacts[pipeline.FormatJSON])
}

type optimalResponse struct {
	MinBorder        float64                 `json:"min_border"`
	OptimalMinBorder float64                 `json:"optimal_min_border"`
	Calculation      border.PrintCalculation `json:"calculation"`
}

func (s *Server) handleOptimal(w http.ResponseWriter, r *http.Request) {
	in, err := inputFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	best := s.runner.OptimalMinBorder(r.Context(), in)
	tuned := in
	tuned.MinBorder = best
	writeJSON(w, http.StatusOK, optimalResponse{
		MinBorder:        in.MinBorder,
		OptimalMinBorder: best,
		Calculation:      s.runner.Calculate(r.Context(), tuned),
	})
}

type previewRequest struct {
	borderRequest
	Format         string  `json:"format,omitempty"`
	Scale          float64 `json:"scale,omitempty"`
	ShowBlades     bool    `json:"show_blades,omitempty"`
	ShowReadings   bool    `json:"show_readings,omitempty"`
	ShowDimensions bool    `json:"show_dimensions,omitempty"`
	PNGZoom        float64 `json:"png_zoom,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.resolve()
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:          in,
		Formats:        []string{format},
		Scale:          req.Scale,
		ShowBlades:     req.ShowBlades,
		ShowReadings:   req.ShowReadings,
		ShowDimensions: req.ShowDimensions,
		PNGZoom:        req.PNGZoom,
		Refresh:        r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.RenderHit)
	w.Header().Set("X-Print-Warnings", strconv.Itoa(result.Stats.Warnings))
	writeRaw(w, http.StatusOK, contentTypes[format], result.Artifacts[format])
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

// inputFromQuery reads calculator input from query parameters. Missing
// parameters take the calculator defaults.
func inputFromQuery(r *http.Request) (border.Input, error) {
	q := r.URL.Query()
	in := border.Input{
		PaperSize:   q.Get("paper"),
		AspectRatio: q.Get("ratio"),
		MinBorder:   border.DefaultMinBorder,
	}.WithDefaults()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"min_border", &in.MinBorder},
		{"paper_width", &in.CustomPaperWidth},
		{"paper_height", &in.CustomPaperHeight},
		{"ratio_width", &in.CustomAspectWidth},
		{"ratio_height", &in.CustomAspectHeight},
		{"horizontal_offset", &in.HorizontalOffset},
		{"vertical_offset", &in.VerticalOffset},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return border.Input{}, errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", f.name, v)
		}
		if err := errors.ValidateBorder(f.name, n, true); err != nil {
			return border.Input{}, err
		}
		*f.dst = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"landscape", &in.IsLandscape},
		{"flipped", &in.IsRatioFlipped},
		{"offset", &in.EnableOffset},
		{"ignore_min_border", &in.IgnoreMinBorder},
	}
	for _, b := range bools {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return border.Input{}, errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", b.name, v)
		}
		*b.dst = on
	}
	return in, nil
}
