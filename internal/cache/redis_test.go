package cache

import (
	"net/url"
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"test", "key", "with", "many", "parts"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestHashKeyPartBoundaries(t *testing.T) {
	// Joining must not collide across part boundaries
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() collided across part boundaries")
	}
}

func TestPageKey(t *testing.T) {
	q1 := url.Values{"page": {"2"}, "tab": {"posts"}}
	q2 := url.Values{"tab": {"posts"}, "page": {"2"}}

	// Same route and parameters in any order share a key
	if PageKey("/", q1) != PageKey("/", q2) {
		t.Error("PageKey() should not depend on parameter order")
	}

	if PageKey("/", q1) == PageKey("/follow/", q1) {
		t.Error("PageKey() should differ per route")
	}

	if PageKey("/", q1) == PageKey("/", url.Values{"page": {"3"}, "tab": {"posts"}}) {
		t.Error("PageKey() should differ per query")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "postline:test",
		},
		{
			name:     "key with colon",
			key:      "test:key",
			expected: "postline:test:key",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "postline:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache

	if _, err := c.Get("key"); err != ErrCacheDisabled {
		t.Errorf("Get on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set("key", "value", 0); err != ErrCacheDisabled {
		t.Errorf("Set on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache = %v, want nil", err)
	}
}
