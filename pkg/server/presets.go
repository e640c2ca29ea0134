package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/preset"
)

type codeResponse struct {
	Code string `json:"code"`
}

type decodeResponse struct {
	Preset preset.Preset `json:"preset"`
	Code   string        `json:"code"`
}

type listResponse struct {
	Presets []*preset.Record `json:"presets"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	p := preset.Default()
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	code, err := preset.Encode(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeResponse{Code: code})
}

// handleDecode rejects malformed codes with 400 unless fallback=true, in
// which case the default preset is returned.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if r.URL.Query().Get("fallback") == "true" {
		writeJSON(w, http.StatusOK, decodeResponse{Preset: preset.DecodeOrDefault(code, s.logger), Code: code})
		return
	}
	p, err := preset.Decode(code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decodeResponse{Preset: *p, Code: code})
}

// createRequest carries either a preset or a share code to store.
type createRequest struct {
	Preset *preset.Preset `json:"preset,omitempty"`
	Code   string         `json:"code,omitempty"`
}

func (req createRequest) resolve() (preset.Preset, error) {
	switch {
	case req.Preset != nil:
		return *req.Preset, nil
	case req.Code != "":
		p, err := preset.Decode(req.Code)
		if err != nil {
			return preset.Preset{}, err
		}
		return *p, nil
	default:
		return preset.Preset{}, errors.New(errors.ErrCodeInvalidInput, "request needs a preset or a code")
	}
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.resolve()
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := preset.NewRecord(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/presets/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*preset.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Presets: recs})
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.resolve()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := rec.Update(p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePresetID(id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadRecord(w http.ResponseWriter, r *http.Request) (*preset.Record, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePresetID(id); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return rec, true
}
