package shared

import "testing"

func TestFormatProgress(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"Zero", 0, "0%"},
		{"Half", 0.5, "50%"},
		{"Rounds", 0.424, "42%"},
		{"Full", 1, "100%"},
		{"ClampsNegative", -0.2, "0%"},
		{"ClampsOverflow", 1.3, "100%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatProgress(tc.in); got != tc.want {
				t.Errorf("FormatProgress(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(512); got != "512 B" {
		t.Errorf("expected 512 B, got %s", got)
	}
	if got := FormatBytes(2048); got != "2.0 KB" {
		t.Errorf("expected 2.0 KB, got %s", got)
	}
	if got := FormatBytes(5 * 1024 * 1024); got != "5.0 MB" {
		t.Errorf("expected 5.0 MB, got %s", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Run("Shorter Than Limit", func(t *testing.T) {
		if got := Truncate("abc", 10); got != "abc" {
			t.Errorf("expected abc, got %s", got)
		}
	})

	t.Run("Truncates With Ellipsis", func(t *testing.T) {
		if got := Truncate("abcdef", 4); got != "abc…" {
			t.Errorf("expected abc…, got %s", got)
		}
	})

	t.Run("Zero Limit", func(t *testing.T) {
		if got := Truncate("abc", 0); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
