// Package exposure holds the darkroom timing helpers that sit next to the
// border calculator: f-stop arithmetic on enlarger times, exposure changes
// when a print is resized, and film reciprocity correction.
//
// All times are seconds. Invalid input returns an error with code
// INVALID_INPUT; nothing here panics.
package exposure
