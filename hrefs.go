package pubgen

import (
	"path"
	"strings"
)

// BasePath returns the relative prefix that leads from a page nested depth
// directories deep back to the site root.
func BasePath(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("../", depth)
}

// Depth returns how many directories deep a site-relative output path is:
// "index.html" is 0, "page/2.html" is 1.
func Depth(outputPath string) int {
	dir := path.Dir(path.Clean(strings.TrimLeft(outputPath, "/")))
	if dir == "." || dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}

// ResolveHref rewrites a canonical site-root relative href so it resolves
// from a page fromDepth directories deep. Absolute URLs, root-absolute paths
// and fragments are returned unchanged.
func ResolveHref(fromDepth int, canonical string) string {
	if isAbsoluteRef(canonical) {
		return canonical
	}
	return BasePath(fromDepth) + canonical
}

func isAbsoluteRef(href string) bool {
	switch {
	case href == "":
		return false
	case strings.HasPrefix(href, "/"), strings.HasPrefix(href, "#"):
		return true
	case strings.Contains(href, "://"), strings.HasPrefix(href, "mailto:"):
		return true
	}
	return false
}
