package pubgen

import "testing"

func TestDepthAndBasePath(t *testing.T) {
	tests := []struct {
		path  string
		depth int
		base  string
	}{
		{"index.html", 0, ""},
		{"flu.html", 0, ""},
		{"posts/flu.html", 1, "../"},
		{"page/2.html", 1, "../"},
		{"tags/covid-19.html", 1, "../"},
		{"archive/2024/page/3.html", 3, "../../../"},
		{"/posts/flu.html", 1, "../"},
	}
	for _, tt := range tests {
		if got := Depth(tt.path); got != tt.depth {
			t.Errorf("Depth(%q) = %d, want %d", tt.path, got, tt.depth)
		}
		if got := BasePath(Depth(tt.path)); got != tt.base {
			t.Errorf("BasePath(Depth(%q)) = %q, want %q", tt.path, got, tt.base)
		}
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		depth int
		href  string
		want  string
	}{
		{0, "posts/flu.html", "posts/flu.html"},
		{1, "posts/flu.html", "../posts/flu.html"},
		{1, "index.html", "../index.html"},
		{2, "tags/flu.html", "../../tags/flu.html"},
		{1, "https://who.int/", "https://who.int/"},
		{1, "//cdn.example.com/x.css", "//cdn.example.com/x.css"},
		{1, "/feed.xml", "/feed.xml"},
		{1, "#top", "#top"},
		{1, "mailto:news@example.com", "mailto:news@example.com"},
		{-1, "posts/flu.html", "posts/flu.html"},
	}
	for _, tt := range tests {
		if got := ResolveHref(tt.depth, tt.href); got != tt.want {
			t.Errorf("ResolveHref(%d, %q) = %q, want %q", tt.depth, tt.href, got, tt.want)
		}
	}
}
