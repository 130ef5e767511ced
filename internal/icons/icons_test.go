package icons

import "testing"

func TestForID(t *testing.T) {
	testCases := []struct {
		id       int
		expected string
	}{
		{1, "science"},
		{2, "art"},
		{3, "geography"},
		{4, "history"},
		{5, "entertainment"},
		{6, "sports"},
		{0, "category"},
		{7, "category"},
		{-1, "category"},
	}

	for _, tc := range testCases {
		if got := ForID(tc.id).Name; got != tc.expected {
			t.Errorf("ForID(%d): expected '%s', but got '%s'", tc.id, tc.expected, got)
		}
	}
}

func TestHistorySharesGeographyArtwork(t *testing.T) {
	if ForID(4).Asset != ForID(3).Asset {
		t.Errorf("Expected history to use the geography asset, but got '%s'", ForID(4).Asset)
	}
}

func TestForLabel(t *testing.T) {
	if got := ForLabel("  Science "); got.Name != "science" {
		t.Errorf("Expected 'science', but got '%s'", got.Name)
	}
	if got := ForLabel("SPORTS"); got.Name != "sports" {
		t.Errorf("Expected 'sports', but got '%s'", got.Name)
	}
	if got := ForLabel("Cooking"); got != Fallback {
		t.Errorf("Expected the fallback icon, but got %+v", got)
	}
}

func TestResolve(t *testing.T) {
	t.Run("id wins over label", func(t *testing.T) {
		if got := Resolve(2, "Science"); got.Name != "art" {
			t.Errorf("Expected 'art', but got '%s'", got.Name)
		}
	})
	t.Run("label when id unknown", func(t *testing.T) {
		if got := Resolve(0, "Entertainment"); got.Name != "entertainment" {
			t.Errorf("Expected 'entertainment', but got '%s'", got.Name)
		}
	})
	t.Run("fallback when neither known", func(t *testing.T) {
		if got := Resolve(42, ""); got != Fallback {
			t.Errorf("Expected the fallback icon, but got %+v", got)
		}
	})
}
