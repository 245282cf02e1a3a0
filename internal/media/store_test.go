package media

import (
	"path/filepath"
	"testing"

	"github.com/postline/postline/pkg/config"
)

func TestAllowedExtensions(t *testing.T) {
	tests := []struct {
		filename string
		allowed  bool
	}{
		{"picture.jpg", true},
		{"picture.JPEG", true},
		{"picture.png", true},
		{"animated.gif", true},
		{"modern.webp", true},
		{"document.pdf", false},
		{"script.sh", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			ext := filepath.Ext(tt.filename)
			got := allowedExtensions[normalizeExt(ext)]
			if got != tt.allowed {
				t.Errorf("allowedExtensions[%q] = %v, want %v", ext, got, tt.allowed)
			}
		})
	}
}

func normalizeExt(ext string) string {
	b := []byte(ext)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

func TestResolve(t *testing.T) {
	store := NewStore(&config.MediaConfig{Root: "media"})

	got := store.Resolve("posts/abc.png")
	want := filepath.Join("media", "posts", "abc.png")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}
