package extract_test

import (
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/extract"
)

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"auth/login.go", "go"},
		{"src/app.ts", "typescript"},
		{"src/App.tsx", "typescript"},
		{"lib/util.js", "javascript"},
		{"api/views.py", "python"},
		{"core/lib.rs", "rust"},
		{"src/Main.java", "java"},
		{"README.md", ""},
		{"image.png", ""},
	}
	for _, tt := range tests {
		if got := extract.LanguageForPath(tt.path); got != tt.want {
			t.Errorf("LanguageForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	facts := extract.Extract("notes.txt", []byte("func Looks(like, go) {}"))
	if !facts.IsEmpty() {
		t.Errorf("unsupported extension should yield no facts, got %+v", facts)
	}
}

func TestExtract_BrokenInputRecoversPartialFacts(t *testing.T) {
	// Truncated mid-function: the earlier complete declarations must still
	// be recovered.
	src := []byte(`
func First() error {
	return doWork()
}

func Second(a int, b int) int {
	return a +
`)
	facts := extract.Extract("broken.go", src)
	if len(facts.Functions) != 2 {
		t.Fatalf("expected 2 recovered functions from truncated file, got %d", len(facts.Functions))
	}
	if facts.Functions[0].Name != "First" || facts.Functions[1].Name != "Second" {
		t.Errorf("unexpected names: %s, %s", facts.Functions[0].Name, facts.Functions[1].Name)
	}
}

func TestExtract_BinaryGarbage(t *testing.T) {
	garbage := []byte{0x00, 0xff, 0xfe, 0x89, 0x50, 0x4e, 0x47}
	facts := extract.Extract("weird.py", garbage)
	if !facts.IsEmpty() {
		t.Errorf("binary input should yield no facts, got %+v", facts)
	}
}
