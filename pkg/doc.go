// Package pkg provides the core libraries for darkroom, an enlarging-easel
// border calculator.
//
// # Overview
//
// Darkroom sizes a print for a sheet of paper, finds the standard easel the
// paper sits in and reports where to set the four easel blades so the
// borders come out even (or deliberately offset). The pkg directory is
// organized into four areas:
//
//  1. [border] and [exposure] - Domain math (print size, offsets, blades, easels, exposure times)
//  2. [preset] - Named settings, share codes and preset stores
//  3. [pipeline] and [render] - Orchestration (calculate → render → cache)
//  4. [server], [cache], [config], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Share code / CLI flags / HTTP request
//	         ↓
//	    [preset] package (decode, validate)
//	         ↓
//	    [border] package (print size, clamped offsets, blades, easel)
//	         ↓
//	    [render] package (SVG, then PNG/PDF via rsvg-convert)
//	         ↓
//	    [cache] package (file or Redis artifacts)
//
// # Quick Start
//
// Calculate blade positions and render a preview:
//
//	import (
//	    "github.com/matzehuels/darkroom/pkg/border"
//	    "github.com/matzehuels/darkroom/pkg/render"
//	)
//
//	engine := border.NewEngine(0)
//	calc := engine.Calculate(border.Input{
//	    PaperSize:   "8x10",
//	    AspectRatio: "3:2",
//	    MinBorder:   0.5,
//	    IsLandscape: true,
//	})
//	// calc.PrintWidth == 9, calc.Blades.Left == 9
//
//	svg, _ := render.SVG(calc, render.WithBlades(), render.WithReadings())
//
// # Main Packages
//
// [border] - Paper and aspect ratio tables, print sizing, offset clamping,
// blade readings and easel matching. [border.Engine] memoizes easel lookups
// in an LRU cache.
//
// [exposure] - F-stop arithmetic, test-strip ladders, print resizing and
// reciprocity correction.
//
// [preset] - The Preset type, its URL-safe share code and the [preset.Store]
// backends (memory, file, Redis, MongoDB).
//
// [pipeline] - Runs a calculation and renders every requested format,
// reading and writing the artifact cache. Used by the CLI and the server so
// both behave the same.
//
// [render] - SVG drawing with svgo, format conversion and JSON output.
//
// [cache] - Artifact cache backends (null, file, Redis) and cache keys.
//
// [server] - The chi HTTP API.
//
// [config] - TOML configuration and feature toggles.
//
// [observability] - Hooks for calculations, cache access and HTTP requests.
//
// [errors] - Coded errors shared by every package and mapped to HTTP
// statuses by the server.
//
// [debounce] - Coalesces rapidly changing values such as live warnings.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/border/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB store tests are skipped unless DARKROOM_REDIS_ADDR or
// DARKROOM_MONGO_URI is set.
//
// [border]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/border
// [exposure]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/exposure
// [preset]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/preset
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/errors
// [debounce]: https://pkg.go.dev/github.com/matzehuels/darkroom/pkg/debounce
package pkg
