package tier

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseTier(t *testing.T) {
	cases := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"screen", Screen, false},
		{"large", Large, false},
		{" Original ", Original, false},
		{"huge", Screen, true},
		{"", Screen, true},
	}
	for _, tc := range cases {
		got, err := ParseTier(tc.in)
		if got != tc.want {
			t.Fatalf("ParseTier(%q) = %s, want %s", tc.in, got, tc.want)
		}
		if tc.wantErr != errors.Is(err, ErrUnknownTier) {
			t.Fatalf("ParseTier(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestPredictSize(t *testing.T) {
	cases := []struct {
		tier      Tier
		canonical Dimensions
		want      Dimensions
	}{
		{Large, Dimensions{8000, 6000}, Dimensions{2000, 1500}},
		{Screen, Dimensions{6000, 4000}, Dimensions{1200, 800}},
		{Screen, Dimensions{3000, 4500}, Dimensions{800, 1200}},
		{Large, Dimensions{1800, 1200}, Dimensions{1800, 1200}},
		{Original, Dimensions{9576, 6388}, Dimensions{9576, 6388}},
		{Large, Dimensions{4000, 4000}, Dimensions{2000, 2000}},
		{Screen, Dimensions{}, Dimensions{}},
	}
	for _, tc := range cases {
		got := PredictSize(tc.tier, tc.canonical)
		if got != tc.want {
			t.Fatalf("PredictSize(%s, %s) = %s, want %s", tc.tier, tc.canonical, got, tc.want)
		}
	}
}

func TestParseDimensions(t *testing.T) {
	d, err := ParseDimensions("800x600")
	if err != nil || d != (Dimensions{800, 600}) {
		t.Fatalf("ParseDimensions = %v, %v", d, err)
	}
	for _, bad := range []string{"800", "x600", "0x10", "-5x5", "axb"} {
		if _, err := ParseDimensions(bad); err == nil {
			t.Fatalf("ParseDimensions(%q) succeeded", bad)
		}
	}
}

func TestDisplayModeRoundTrip(t *testing.T) {
	for _, m := range []DisplayMode{Plain, Annotated} {
		got, err := ParseDisplayMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseDisplayMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseDisplayMode("inverted"); err == nil {
		t.Fatal("ParseDisplayMode accepted unknown mode")
	}
}

func TestCanonicalStoreFirstWriteWins(t *testing.T) {
	s := NewCanonicalStore(0)
	if _, ok := s.Lookup("42"); ok {
		t.Fatal("empty store reported a size")
	}

	if got := s.Learn("42", Dimensions{9576, 6388}); got != (Dimensions{9576, 6388}) {
		t.Fatalf("Learn = %s", got)
	}
	if got := s.Learn("42", Dimensions{2000, 1335}); got != (Dimensions{9576, 6388}) {
		t.Fatalf("second Learn replaced canonical size: %s", got)
	}
	if got := s.Learn("43", Dimensions{}); got.Valid() {
		t.Fatalf("Learn recorded invalid size %s", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestCanonicalStoreKeepsLargeSession(t *testing.T) {
	const n = 20000
	s := NewCanonicalStore(0)
	for i := 0; i < n; i++ {
		s.Learn(strconv.Itoa(i), Dimensions{Width: 8000 + i, Height: 6000})
	}
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		// A later hint must not replace the decoded size.
		if got := s.Learn(id, Dimensions{Width: 1, Height: 1}); got.Width != 8000+i {
			t.Fatalf("identity %s: got %s, want width %d", id, got, 8000+i)
		}
	}
	if s.Len() != n {
		t.Fatalf("Len() = %d, want %d", s.Len(), n)
	}
}
