package ui

import "testing"

func TestDetectTheme_ColorFgBg(t *testing.T) {
	cases := []struct {
		value string
		dark  bool
	}{
		{"15;0", true},
		{"0;15", false},
		{"12;8", true},
		{"0;7", false},
		{"garbage", true},
		{"", true},
	}
	for _, tc := range cases {
		t.Setenv("COLORFGBG", tc.value)
		t.Setenv("GITCOACH_LIGHT_MODE", "")
		if got := DetectTheme(); got.IsDark != tc.dark {
			t.Errorf("COLORFGBG=%q: IsDark = %v, want %v", tc.value, got.IsDark, tc.dark)
		}
	}
}

func TestDetectTheme_ExplicitLight(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("GITCOACH_LIGHT_MODE", "1")
	if DetectTheme().IsDark {
		t.Error("explicit light mode ignored")
	}
}

func TestNewStyles(t *testing.T) {
	for _, theme := range []Theme{LightTheme(), DarkTheme()} {
		s := NewStyles(theme)
		if s.Theme.IsDark != theme.IsDark {
			t.Error("theme not carried into styles")
		}
		// Smoke-render a few styles.
		if s.Title.Render("t") == "" || s.PassBanner.Render("ok") == "" {
			t.Error("style rendered to empty string")
		}
	}
}
