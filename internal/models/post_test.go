package models

import "testing"

func TestPostString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short text stays intact",
			text: "hello",
			want: "hello",
		},
		{
			name: "exactly fifteen characters",
			text: "123456789012345",
			want: "123456789012345",
		},
		{
			name: "long ascii is truncated",
			text: "a very long post about nothing in particular",
			want: "a very long pos",
		},
		{
			name: "cyrillic shorter than limit",
			text: "Тестовый пост",
			want: "Тестовый пост",
		},
		{
			name: "cyrillic truncated by characters not bytes",
			text: "Тестовый пост без группы",
			want: "Тестовый пост б",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{Text: tt.text}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostTagNames(t *testing.T) {
	p := Post{
		TagLinks: []TagPost{
			{Tag: &Tag{Name: "rock"}},
			{Tag: nil},
			{Tag: &Tag{Name: "icy"}},
		},
	}

	names := p.TagNames()
	if len(names) != 2 || names[0] != "rock" || names[1] != "icy" {
		t.Errorf("TagNames() = %v, want [rock icy]", names)
	}

	empty := Post{}
	if got := empty.TagNames(); len(got) != 0 {
		t.Errorf("TagNames() on empty post = %v, want empty", got)
	}
}

func TestGroupString(t *testing.T) {
	g := Group{Title: "Тестовая группа", Slug: "test-slug"}
	if got := g.String(); got != "Тестовая группа" {
		t.Errorf("String() = %q, want group title", got)
	}
}
