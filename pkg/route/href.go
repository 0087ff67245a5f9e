package route

import (
	"net/url"
	"strings"
)

// placeholderBase lets relative hrefs go through the URL parser.
var placeholderBase = &url.URL{Scheme: "http", Host: "routekit.invalid", Path: "/"}

// splitHref separates an href into its escaped path and raw query. Dot
// segments are resolved. Hrefs the URL parser rejects are split by hand.
func splitHref(href string) (path, query string) {
	ref, err := url.Parse(href)
	if err == nil && !ref.IsAbs() && !strings.HasPrefix(href, "/") {
		ref, err = url.Parse("/" + href)
	}
	if err != nil {
		return splitHrefManual(href)
	}

	resolved := placeholderBase.ResolveReference(ref)
	path = resolved.EscapedPath()
	if path == "" {
		path = "/"
	}
	return path, resolved.RawQuery
}

func splitHrefManual(href string) (path, query string) {
	href, _, _ = strings.Cut(href, "#")
	path, query, _ = strings.Cut(href, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, query
}

// appPath reduces an href to the path tested by IsAppPath. Absolute URLs
// give their path; anything else loses its query and fragment and gets a
// leading "/".
func appPath(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		path := placeholderBase.ResolveReference(u).EscapedPath()
		if path == "" {
			return "/"
		}
		return path
	}

	path := href
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
