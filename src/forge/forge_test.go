package forge

import "testing"

func TestIsGitURL(t *testing.T) {
	cases := map[string]bool{
		"https://github.com/acme/app.git": true,
		"http://git.local/app":            true,
		"git@github.com:acme/app.git":     true,
		"acme/app":                        false,
		"/tmp/checkout":                   false,
	}
	for ref, want := range cases {
		if got := IsGitURL(ref); got != want {
			t.Errorf("IsGitURL(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestIsOwnerRepo(t *testing.T) {
	cases := map[string]bool{
		"acme/app":      true,
		"acme/app.js":   true,
		"acme":          false,
		"a/b/c":         false,
		"../etc/passwd": false,
	}
	for ref, want := range cases {
		if got := IsOwnerRepo(ref); got != want {
			t.Errorf("IsOwnerRepo(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestSplitOwnerRepo(t *testing.T) {
	owner, repo := SplitOwnerRepo("acme/app")
	if owner != "acme" || repo != "app" {
		t.Errorf("SplitOwnerRepo = %q,%q", owner, repo)
	}
}
