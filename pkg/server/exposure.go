package server

import (
	"net/http"

	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/exposure"
)

type stopsRequest struct {
	BaseTime  float64 `json:"base_time"`
	Stops     float64 `json:"stops"`
	Increment float64 `json:"increment,omitempty"`
	Span      int     `json:"span,omitempty"`
}

type stopsResponse struct {
	BaseTime float64         `json:"base_time"`
	Stops    float64         `json:"stops"`
	Label    string          `json:"label"`
	Time     float64         `json:"time"`
	Steps    []exposure.Step `json:"steps,omitempty"`
}

const maxStripSpan = 5

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	var req stopsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := exposure.AdjustTime(req.BaseTime, req.Stops)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := stopsResponse{
		BaseTime: req.BaseTime,
		Stops:    req.Stops,
		Label:    exposure.FormatStops(req.Stops),
		Time:     t,
	}
	if req.Increment > 0 {
		if req.Span > maxStripSpan {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "span too large (max %d)", maxStripSpan))
			return
		}
		if resp.Steps, err = exposure.StopSteps(t, req.Increment, req.Span); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type resizeRequest struct {
	OriginalWidth  float64 `json:"original_width"`
	OriginalHeight float64 `json:"original_height"`
	NewWidth       float64 `json:"new_width"`
	NewHeight      float64 `json:"new_height"`
	OriginalTime   float64 `json:"original_time"`
}

type resizeResponse struct {
	exposure.Resize
	Label string `json:"label"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := exposure.ResizeExposure(req.OriginalWidth, req.OriginalHeight, req.NewWidth, req.NewHeight, req.OriginalTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resizeResponse{Resize: res, Label: exposure.FormatStops(res.Stops)})
}

// reciprocityRequest names a film from the table or gives a factor.
// A factor wins when both are set.
type reciprocityRequest struct {
	MeteredTime float64 `json:"metered_time"`
	Film        string  `json:"film,omitempty"`
	Factor      float64 `json:"factor,omitempty"`
}

type reciprocityResponse struct {
	exposure.Reciprocity
	Film *exposure.Film `json:"film,omitempty"`
}

func (s *Server) handleReciprocity(w http.ResponseWriter, r *http.Request) {
	var req reciprocityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var resp reciprocityResponse
	factor := req.Factor
	if factor == 0 {
		if req.Film == "" {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request needs a film or a factor"))
			return
		}
		film, err := exposure.LookupFilm(req.Film)
		if err != nil {
			writeError(w, r, err)
			return
		}
		factor = film.Factor
		resp.Film = &film
	}

	rec, err := exposure.CorrectedTime(req.MeteredTime, factor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.Reciprocity = rec
	writeJSON(w, http.StatusOK, resp)
}
