package hotkeys

import "strings"

const articleSegment = "/article/"

// BasePath returns the container part of path: the prefix before an
// article segment, a feed or category path as is, and "" for the root.
func BasePath(path string) string {
	if i := strings.Index(path, articleSegment); i >= 0 {
		return path[:i]
	}
	if strings.HasPrefix(path, "/feed/") || strings.HasPrefix(path, "/category/") {
		return path
	}
	if path == "/" {
		return ""
	}
	return path
}

// ArticlePath returns the path that opens article id inside base.
func ArticlePath(base, id string) string {
	if base == "" {
		return articleSegment + id
	}
	return base + articleSegment + id
}

// ArticleID returns the article identifier in path, or "".
func ArticleID(path string) string {
	i := strings.Index(path, articleSegment)
	if i < 0 {
		return ""
	}
	return strings.Trim(path[i+len(articleSegment):], "/")
}
