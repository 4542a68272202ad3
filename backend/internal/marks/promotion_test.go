package marks

import "testing"

func TestPromotionThreshold(t *testing.T) {
	cases := []struct {
		class string
		want  float64
	}{
		{"PREP-A", 45},
		{"PREP-B", 45},
		{"S1A", 45},
		{"S1E", 45},
		{"S2A", 50},
		{"S2B", 50},
		{"S3A", 60},
		{"S3B", 60},
		{"S4A", 60},
		{"S4B", 60},
		{"UNKNOWN", 60},
	}
	for _, tc := range cases {
		if got := PromotionThreshold(tc.class); got != tc.want {
			t.Errorf("PromotionThreshold(%q) = %v, want %v", tc.class, got, tc.want)
		}
	}
}

func TestEvaluatePromotion(t *testing.T) {
	t.Run("threshold boundary is inclusive", func(t *testing.T) {
		cases := []struct {
			class    string
			average  float64
			promoted bool
		}{
			{"S2A", 50.0, true},
			{"S2A", 49.99, false},
			{"S3B", 60.0, true},
			{"S3B", 59.99, false},
			{"PREP-A", 45.0, true},
			{"PREP-A", 44.99, false},
		}
		for _, tc := range cases {
			d := EvaluatePromotion(tc.class, tc.average)
			if d.Promoted != tc.promoted {
				t.Errorf("EvaluatePromotion(%q, %v).Promoted = %v, want %v",
					tc.class, tc.average, d.Promoted, tc.promoted)
			}
		}
	})

	t.Run("promoted student gets the next class from the hierarchy", func(t *testing.T) {
		d := EvaluatePromotion("S1C", 70)
		if !d.Promoted {
			t.Fatal("expected promotion")
		}
		if d.NextClass != "S2B" {
			t.Errorf("NextClass = %q, want S2B", d.NextClass)
		}
		if d.Threshold != 45 {
			t.Errorf("Threshold = %v, want 45", d.Threshold)
		}
	})

	t.Run("retained student has no next class", func(t *testing.T) {
		d := EvaluatePromotion("S2B", 30)
		if d.Promoted {
			t.Fatal("expected retention")
		}
		if d.NextClass != "" {
			t.Errorf("NextClass = %q, want empty", d.NextClass)
		}
		if d.Threshold != 50 {
			t.Errorf("Threshold = %v, want 50", d.Threshold)
		}
	})

	t.Run("terminal class promotes with no next class", func(t *testing.T) {
		d := EvaluatePromotion("S4A", 85)
		if !d.Promoted {
			t.Fatal("expected promotion")
		}
		if d.NextClass != "" {
			t.Errorf("NextClass = %q, want empty for terminal class", d.NextClass)
		}
	})
}
