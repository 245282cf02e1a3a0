package pagination

import (
	"testing"
)

func TestNumPages(t *testing.T) {
	tests := []struct {
		name    string
		perPage int
		count   int64
		want    int
	}{
		{"empty listing still has one page", 10, 0, 1},
		{"exact fit", 10, 30, 3},
		{"partial last page", 10, 31, 4},
		{"single item", 10, 1, 1},
		{"per page larger than count", 100, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.perPage, tt.count)
			if got := p.NumPages(); got != tt.want {
				t.Errorf("NumPages() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	p := New(10, 35) // 4 pages

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty defaults to first", "", 1},
		{"garbage defaults to first", "abc", 1},
		{"zero defaults to first", "0", 1},
		{"negative defaults to first", "-3", 1},
		{"valid page", "2", 2},
		{"last page", "4", 4},
		{"overflow clamps to last", "99", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Resolve(tt.raw); got != tt.want {
				t.Errorf("Resolve(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestOffsetAndNeighbors(t *testing.T) {
	p := New(10, 35)

	if got := p.Offset(1); got != 0 {
		t.Errorf("Offset(1) = %d, want 0", got)
	}
	if got := p.Offset(3); got != 20 {
		t.Errorf("Offset(3) = %d, want 20", got)
	}

	if !p.HasNext(1) || p.HasNext(4) {
		t.Error("HasNext() wrong at listing edges")
	}
	if p.HasPrev(1) || !p.HasPrev(4) {
		t.Error("HasPrev() wrong at listing edges")
	}
}
