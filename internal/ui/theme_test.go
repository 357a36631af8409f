package ui

import "testing"

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := ThemeNames()[0]
	for range ThemeNames() {
		if seen[name] {
			t.Fatalf("theme %q repeated before the cycle closed", name)
		}
		seen[name] = true
		name = NextTheme(name)
	}
	if name != ThemeNames()[0] {
		t.Fatalf("cycle ended at %q, want %q", name, ThemeNames()[0])
	}
	if got := NextTheme("unknown"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, ThemeNames()[0])
	}
}

func TestEveryThemeHasAllBadges(t *testing.T) {
	badges := []string{"online", "offline", "loading", "error", "admin", "user", "favorite"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		for _, b := range badges {
			if th.BadgeColors[b] == "" {
				t.Errorf("theme %s missing badge color %q", name, b)
			}
		}
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("does-not-exist").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
}
