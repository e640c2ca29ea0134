package border

import "testing"

func TestEaselSizesAscending(t *testing.T) {
	for i := 1; i < len(EaselSizes); i++ {
		if EaselSizes[i].Area() < EaselSizes[i-1].Area() {
			t.Errorf("easel %s smaller than %s", EaselSizes[i].Label, EaselSizes[i-1].Label)
		}
	}
	for _, e := range EaselSizes {
		if e.Width > e.Height {
			t.Errorf("easel %s not canonical: %vx%v", e.Label, e.Width, e.Height)
		}
		if e.Label == Custom {
			t.Error("custom entry must not become an easel")
		}
	}
}

func TestFindCenteringOffsets(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		landscape  bool
		wantEasel  string
		wantSlot   Slot
		wantNonStd bool
	}{
		{"standard portrait", 8, 10, false, "8x10", Slot{8, 10}, false},
		{"standard landscape", 10, 8, true, "8x10", Slot{10, 8}, false},
		{"standard 20x24", 20, 24, false, "20x24", Slot{20, 24}, false},
		{"non-standard fits 8x10", 6, 9, false, "8x10", Slot{8, 10}, true},
		{"non-standard landscape", 9, 6, true, "8x10", Slot{10, 8}, true},
		{"square picks smallest container", 7, 7, false, "8x10", Slot{8, 10}, true},
		{"square turned by flag", 7, 7, true, "8x10", Slot{10, 8}, true},
		{"smaller than every easel", 3, 3, false, "4x5", Slot{4, 5}, true},
		{"larger than every easel", 30, 40, false, Custom, Slot{30, 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCenteringOffsets(tt.w, tt.h, tt.landscape)
			if got.EaselSize.Label != tt.wantEasel {
				t.Errorf("easel = %s, want %s", got.EaselSize.Label, tt.wantEasel)
			}
			if got.EffectiveSlot != tt.wantSlot {
				t.Errorf("slot = %+v, want %+v", got.EffectiveSlot, tt.wantSlot)
			}
			if got.IsNonStandardPaperSize != tt.wantNonStd {
				t.Errorf("non-standard = %v, want %v", got.IsNonStandardPaperSize, tt.wantNonStd)
			}
		})
	}
}

func TestFindCenteringOffsetsExactMatchSlot(t *testing.T) {
	got := FindCenteringOffsets(8, 10, false)
	if got.EffectiveSlot.Width != got.EaselSize.Width || got.EffectiveSlot.Height != got.EaselSize.Height {
		t.Errorf("exact match slot %+v differs from easel %+v", got.EffectiveSlot, got.EaselSize)
	}
}

func TestFindCenteringOffsetsCanonicalEasel(t *testing.T) {
	portrait := FindCenteringOffsets(11, 14, false)
	landscape := FindCenteringOffsets(14, 11, true)
	if portrait.EaselSize != landscape.EaselSize {
		t.Errorf("easel differs by orientation: %+v vs %+v", portrait.EaselSize, landscape.EaselSize)
	}
}

func TestEngineMemoizesEasels(t *testing.T) {
	eng := NewEngine(2)

	first := eng.FindCenteringOffsets(8, 10, false)
	again := eng.FindCenteringOffsets(8.00001, 10, false)
	if first != again {
		t.Errorf("rounded key should hit: %+v vs %+v", first, again)
	}
	if n := eng.CachedEasels(); n != 1 {
		t.Errorf("CachedEasels() = %d, want 1", n)
	}

	eng.FindCenteringOffsets(11, 14, false)
	eng.FindCenteringOffsets(16, 20, false)
	if n := eng.CachedEasels(); n != 2 {
		t.Errorf("CachedEasels() = %d, want capacity 2", n)
	}

	// Contains does not touch recency, so it observes the eviction order.
	if eng.easels.Contains(newEaselKey(8, 10, false)) {
		t.Error("oldest entry 8x10 was not evicted")
	}
	for _, k := range []easelKey{newEaselKey(11, 14, false), newEaselKey(16, 20, false)} {
		if !eng.easels.Contains(k) {
			t.Errorf("entry %+v evicted, want it kept", k)
		}
	}
}

func TestEngineEvictsLeastRecentlyUsed(t *testing.T) {
	eng := NewEngine(2)
	eng.FindCenteringOffsets(8, 10, false)
	eng.FindCenteringOffsets(11, 14, false)
	eng.FindCenteringOffsets(8, 10, false) // refresh 8x10
	eng.FindCenteringOffsets(16, 20, false)

	if !eng.easels.Contains(newEaselKey(8, 10, false)) {
		t.Error("recently used 8x10 was evicted")
	}
	if eng.easels.Contains(newEaselKey(11, 14, false)) {
		t.Error("least recently used 11x14 was kept")
	}
}

func TestNewEngineDefaultSize(t *testing.T) {
	eng := NewEngine(0)
	for i := 0; i < DefaultEaselCacheSize+10; i++ {
		eng.FindCenteringOffsets(float64(i)+1, 10, false)
	}
	if n := eng.CachedEasels(); n != DefaultEaselCacheSize {
		t.Errorf("CachedEasels() = %d, want %d", n, DefaultEaselCacheSize)
	}
}
