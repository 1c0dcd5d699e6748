package forecast

import "testing"

func TestClassifyKnownCodes(t *testing.T) {
	table := map[IconCategory][]int{
		IconClearDay:        {25, 32, 33, 34, 36, 3200},
		IconRain:            {0, 1, 2, 6, 8, 9, 10, 11, 12, 17, 35, 40},
		IconThunderstorms:   {3, 4, 37, 38, 39, 45, 47},
		IconSnow:            {5, 7, 13, 14, 16, 18, 41, 42, 43, 46},
		IconFog:             {15, 19, 20, 21, 22},
		IconWindy:           {23, 24},
		IconCloudy:          {26, 27, 28, 31},
		IconPartlyCloudyDay: {29, 30, 44},
	}

	seen := make(map[int]bool)
	for want, codes := range table {
		for _, code := range codes {
			if seen[code] {
				t.Fatalf("code %d listed twice", code)
			}
			seen[code] = true

			got, ok := Classify(code)
			if !ok {
				t.Errorf("Classify(%d) reported no category, want %q", code, want)
				continue
			}
			if got != want {
				t.Errorf("Classify(%d) = %q, want %q", code, got, want)
			}
		}
	}

	// Yahoo codes 0..47 plus 3200 are all covered.
	for code := 0; code <= 47; code++ {
		if !seen[code] {
			t.Errorf("code %d missing from table", code)
		}
	}
}

func TestClassifyUnmappedCodes(t *testing.T) {
	for _, code := range []int{-1, 48, 100, 3199, 3201, NoIconCode} {
		got, ok := Classify(code)
		if ok || got != "" {
			t.Errorf("Classify(%d) = %q, %v; want no category", code, got, ok)
		}
	}
}
