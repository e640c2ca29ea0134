package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/darkroom/pkg/cache"
	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
)

const testCode = "VGVzdC0wLTMtNTAtMC0xMDAwMC0xMg"

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := quietLogger()
	runner := pipeline.NewRunner(c, nil, nil, logger)
	return New(runner, preset.NewMemoryStore(), cfg, logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env errorEnvelope
	decode(t, rec, &env)
	return env.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	var body struct {
		Status   string   `json:"status"`
		Features []string `json:"features"`
	}
	decode(t, rec, &body)
	if body.Status != "ok" || len(body.Features) != 4 {
		t.Errorf("body = %+v", body)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, nil)
	id := "6f1c1a52-3c7e-4c55-9d1b-8a3f7c1b2e90"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "../../etc")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "../../etc" {
		t.Error("malformed request id was echoed back")
	}
}

func TestTables(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/tables", "")
	var body tablesResponse
	decode(t, rec, &body)
	if len(body.Papers) != 8 || len(body.Ratios) != 14 || len(body.Easels) != 7 {
		t.Errorf("tables: %d papers, %d ratios, %d easels", len(body.Papers), len(body.Ratios), len(body.Easels))
	}
	if len(body.Films) == 0 {
		t.Error("films missing while exposure is enabled")
	}
}

func TestBorder(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"paper_size":"8x10","aspect_ratio":"3:2","min_border":0.5,"is_landscape":true}`

	tests := []struct {
		name  string
		body  string
		cache string
	}{
		{"first call renders", body, "MISS"},
		{"second call hits the cache", body, "HIT"},
		{"share code", `{"code":"` + testCode + `"}`, "HIT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/border", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if got := rec.Header().Get("X-Cache"); got != tt.cache {
				t.Errorf("X-Cache = %q, want %q", got, tt.cache)
			}
			var calc struct {
				PrintWidth  float64 `json:"print_width"`
				PrintHeight float64 `json:"print_height"`
			}
			decode(t, rec, &calc)
			if math.Abs(calc.PrintWidth-9) > 1e-9 || math.Abs(calc.PrintHeight-6) > 1e-9 {
				t.Errorf("print = %vx%v, want 9x6", calc.PrintWidth, calc.PrintHeight)
			}
		})
	}
}

func TestBorderErrors(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"paper_size":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad share code", `{"code":"!!!"}`, http.StatusBadRequest, "INVALID_PRESET"},
		{"border out of range", `{"min_border":1e308}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/border", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestOptimal(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/border/optimal?paper=8x10&ratio=3:2&min_border=0.5&landscape=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var body optimalResponse
	decode(t, rec, &body)
	if body.MinBorder != 0.5 {
		t.Errorf("min_border = %v", body.MinBorder)
	}
	if body.OptimalMinBorder <= 0 || body.Calculation.PrintWidth <= 0 {
		t.Errorf("optimal = %+v", body)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/border/optimal?min_border=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad number status = %d", rec.Code)
	}
}

func TestPreview(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/preview",
		`{"paper_size":"8x10","aspect_ratio":"3:2","min_border":0.5,"show_blades":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("body is not svg: %.80s", rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/v1/preview", `{"format":"gif"}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_FORMAT" {
		t.Errorf("gif: status %d body %s", rec.Code, rec.Body)
	}

	for _, body := range []string{`{"scale":1e9}`, `{"format":"png","png_zoom":100}`} {
		rec = do(t, s, http.MethodPost, "/api/v1/preview", body)
		if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_INPUT" {
			t.Errorf("%s: status %d body %s", body, rec.Code, rec.Body)
		}
	}
}

func TestFeatureGates(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Features = config.Features{} })
	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/border/optimal"},
		{http.MethodPost, "/api/v1/preview"},
		{http.MethodGet, "/api/v1/presets"},
		{http.MethodPost, "/api/v1/exposure/stops"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, "{}")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
			if got := errorCode(t, rec); got != "FEATURE_DISABLED" {
				t.Errorf("code = %q", got)
			}
		})
	}

	// Calculation and share codes stay available.
	if rec := do(t, s, http.MethodGet, "/api/v1/presets/decode/"+testCode, ""); rec.Code != http.StatusOK {
		t.Errorf("decode status = %d", rec.Code)
	}
}

func TestPresetCodec(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/presets/encode",
		`{"name":"Test","aspect_ratio":"3:2","paper_size":"8x10","min_border":0.5,"show_blades":true,"is_landscape":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode status = %d: %s", rec.Code, rec.Body)
	}
	var enc codeResponse
	decode(t, rec, &enc)
	if enc.Code != testCode {
		t.Errorf("code = %q, want %q", enc.Code, testCode)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets/decode/"+testCode, "")
	var dec decodeResponse
	decode(t, rec, &dec)
	if dec.Preset.Name != "Test" || dec.Preset.PaperSize != "8x10" {
		t.Errorf("decoded = %+v", dec.Preset)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets/decode/garbage", "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_PRESET" {
		t.Errorf("garbage: status %d body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets/decode/garbage?fallback=true", "")
	decode(t, rec, &dec)
	if rec.Code != http.StatusOK || dec.Preset != preset.Default() {
		t.Errorf("fallback: status %d preset %+v", rec.Code, dec.Preset)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/presets/encode", `{"name":"x","paper_size":"a4"}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "UNKNOWN_PAPER" {
		t.Errorf("unknown paper: status %d body %s", rec.Code, rec.Body)
	}
}

func TestPresetCRUD(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/presets", `{"code":"`+testCode+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created preset.Record
	decode(t, rec, &created)
	if created.ID == "" || created.Code != testCode {
		t.Fatalf("created = %+v", created)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/presets/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets", "")
	var list listResponse
	decode(t, rec, &list)
	if len(list.Presets) != 1 {
		t.Fatalf("list len = %d", len(list.Presets))
	}

	p := created.Preset
	p.Name = "Renamed"
	p.MinBorder = 1
	body, _ := json.Marshal(createRequest{Preset: &p})
	rec = do(t, s, http.MethodPut, "/api/v1/presets/"+created.ID, string(body))
	var updated preset.Record
	decode(t, rec, &updated)
	if rec.Code != http.StatusOK || updated.Preset.Name != "Renamed" || updated.Code == created.Code {
		t.Errorf("update: status %d record %+v", rec.Code, updated)
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/presets/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/presets/"+created.ID, "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "PRESET_NOT_FOUND" {
		t.Errorf("after delete: status %d body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/presets", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty create status = %d", rec.Code)
	}
}

func TestExposure(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("stops", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/v1/exposure/stops", `{"base_time":10,"stops":1,"increment":0.5,"span":1}`)
		var body stopsResponse
		decode(t, rec, &body)
		if body.Time != 20 || body.Label != "+1" || len(body.Steps) != 5 {
			t.Errorf("stops = %+v", body)
		}
	})

	t.Run("resize", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/v1/exposure/resize",
			`{"original_width":8,"original_height":10,"new_width":16,"new_height":20,"original_time":12}`)
		var body resizeResponse
		decode(t, rec, &body)
		if math.Abs(body.NewTime-48) > 1e-9 || body.Label != "+2" {
			t.Errorf("resize = %+v", body)
		}
	})

	t.Run("reciprocity film", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/v1/exposure/reciprocity", `{"metered_time":10,"film":"hp5"}`)
		var body reciprocityResponse
		decode(t, rec, &body)
		if body.Film == nil || math.Abs(body.Corrected-math.Pow(10, 1.31)) > 1e-9 {
			t.Errorf("reciprocity = %+v", body)
		}
	})

	t.Run("unknown film", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/v1/exposure/reciprocity", `{"metered_time":10,"film":"velvia"}`)
		if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "UNKNOWN_FILM" {
			t.Errorf("status %d body %s", rec.Code, rec.Body)
		}
	})
}

func TestNotFoundAndBodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 16 })

	rec := do(t, s, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "NOT_FOUND" {
		t.Errorf("unknown route: status %d body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/border", `{"paper_size":"8x10","aspect_ratio":"3:2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized body status = %d", rec.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
