// Package border computes print borders, easel blade positions and fit
// warnings for darkroom enlarging.
//
// Given a sheet of paper, an aspect ratio and a minimum border, the package
// finds the largest print that fits, centers it (or shifts it by a creative
// offset), converts the resulting borders into the readings you dial on an
// adjustable easel, and reports any condition the printer should know about.
//
// # Tables
//
// Standard paper sizes and aspect ratios live in ordered tables
// ([PaperSizes], [AspectRatios]). The order is part of the preset sharing
// format, so entries are only ever appended before the trailing "custom"
// entry. Easel slots ([EaselSizes]) are derived from the paper table and
// sorted by area.
//
// # Geometry
//
// The building blocks are pure functions:
//
//   - [ComputePrintSize]: largest print of a given ratio inside the border
//   - [ClampOffsets]: keep a shifted print on the paper (and outside the border)
//   - [BordersFromGaps]: convert half-slack and offsets into four borders
//   - [BladeReadings]: convert print size and shift into easel blade positions
//   - [FindCenteringOffsets]: pick the easel slot for a sheet of paper
//   - [CalculateOptimalMinBorder]: nudge the border so blades land on 1/4"
//   - [CalculateBladeThickness]: visual blade thickness for previews
//   - [ValidatePrintFits]: oracle for "print stays on the paper"
//
// None of them panic or return errors. Degenerate input (zero dimensions,
// zero ratio height, a border wider than the paper) produces a zero print
// size and, where a caller can act on it, a warning string.
//
// # Engine
//
// [Engine] strings the building blocks together into a single
// [PrintCalculation] and memoizes easel lookups in a fixed-capacity LRU:
//
//	eng := border.NewEngine(border.DefaultEaselCacheSize)
//	calc := eng.Calculate(border.Input{
//	    PaperSize:   "8x10",
//	    AspectRatio: "3:2",
//	    MinBorder:   0.5,
//	})
//	fmt.Printf("%.2f x %.2f\n", calc.PrintWidth, calc.PrintHeight)
//
// The engine is safe for concurrent use.
package border
