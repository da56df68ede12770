package meter

import "testing"

func TestNewAggregatorBounds(t *testing.T) {
	if _, err := NewAggregator(512, MinBands-1); err == nil {
		t.Error("expected error below minimum band count")
	}
	if _, err := NewAggregator(512, MaxBands+1); err == nil {
		t.Error("expected error above maximum band count")
	}
	if _, err := NewAggregator(8, 10); err == nil {
		t.Error("expected error for fewer bins than bands")
	}
	if _, err := NewAggregator(512, DefaultBands); err != nil {
		t.Errorf("default configuration failed: %v", err)
	}
}

func TestAggregateMaxPerBand(t *testing.T) {
	agg, err := NewAggregator(512, 64) // even split, 8 bins per band
	if err != nil {
		t.Fatal(err)
	}

	weighted := make([]float64, 512)
	weighted[0] = 0.5  // band 0
	weighted[7] = 0.9  // band 0, the max
	weighted[8] = 0.3  // band 1
	weighted[511] = 2. // band 63

	out := agg.Aggregate(weighted)
	if len(out) != 64 {
		t.Fatalf("len = %d, want 64", len(out))
	}
	if out[0] != 0.9 {
		t.Errorf("band 0 = %g, want max 0.9", out[0])
	}
	if out[1] != 0.3 {
		t.Errorf("band 1 = %g, want 0.3", out[1])
	}
	if out[63] != 2.0 {
		t.Errorf("band 63 = %g, want 2.0", out[63])
	}
	for b := 2; b < 63; b++ {
		if out[b] != 0 {
			t.Fatalf("band %d = %g, want 0", b, out[b])
		}
	}
}

func TestAggregateRemainderFoldsIntoLastBand(t *testing.T) {
	// 512 bins over 60 bands: 8 bins per band, 32 remainder bins that
	// belong to band 59.
	agg, err := NewAggregator(512, 60)
	if err != nil {
		t.Fatal(err)
	}

	weighted := make([]float64, 512)
	weighted[500] = 1.5 // past the last even boundary (60*8 = 480)

	out := agg.Aggregate(weighted)
	if len(out) != 60 {
		t.Fatalf("len = %d, want 60", len(out))
	}
	if out[59] != 1.5 {
		t.Errorf("last band = %g, want 1.5 from the remainder bins", out[59])
	}
}

func TestAggregateAllocatesFreshOutput(t *testing.T) {
	agg, err := NewAggregator(512, 60)
	if err != nil {
		t.Fatal(err)
	}

	weighted := make([]float64, 512)
	weighted[0] = 1.0

	first := agg.Aggregate(weighted)
	first[0] = -1 // consumer scribbles on its copy

	second := agg.Aggregate(weighted)
	if second[0] != 1.0 {
		t.Errorf("second aggregate = %g, published buffer was shared", second[0])
	}
}

func TestAggregatorReconfigure(t *testing.T) {
	weighted := make([]float64, 512)
	weighted[100] = 1.0

	for _, bands := range []int{10, 30, 60, 100} {
		agg, err := NewAggregator(512, bands)
		if err != nil {
			t.Fatalf("bands=%d: %v", bands, err)
		}
		out := agg.Aggregate(weighted)
		if len(out) != bands {
			t.Fatalf("bands=%d: len = %d", bands, len(out))
		}
		if agg.Bands() != bands {
			t.Fatalf("Bands() = %d, want %d", agg.Bands(), bands)
		}
	}
}
