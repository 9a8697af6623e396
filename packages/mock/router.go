package mock

import (
	"regexp"
	"strings"
	"time"
)

// Route represents a mock route
type Route struct {
	Method      string
	PathPattern string
	PathRegex   *regexp.Regexp
	Name        string
	Response    *MockResponse
}

// MockResponse describes what a route answers with. Exactly one of Body,
// Events or Inspect applies, checked in the order Inspect, Events, Body.
type MockResponse struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        string

	// Events is a raw text/event-stream document replayed one block at a
	// time, EventInterval apart.
	Events        string
	EventInterval time.Duration

	// Inspect answers with a JSON description of the received body.
	Inspect bool
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// AddRoute adds a route to the router
func (r *Router) AddRoute(route *Route) {
	r.routes = append(r.routes, route)
}

// with returns a new router holding r's routes followed by routes.
func (r *Router) with(routes ...*Route) *Router {
	combined := make([]*Route, 0, len(r.routes)+len(routes))
	combined = append(combined, r.routes...)
	combined = append(combined, routes...)
	return &Router{routes: combined}
}

// Match finds a route matching the given method and path. A route with
// method "*" matches every method.
func (r *Router) Match(method, path string) (*Route, map[string]string) {
	path = normalizePath(path)

	for _, route := range r.routes {
		if route.Method != "*" && !strings.EqualFold(route.Method, method) {
			continue
		}

		if params := matchPath(route, path); params != nil {
			return route, params
		}
	}

	return nil, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

var paramPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// createPathRegex turns /users/{{id}} into a regexp with a named group per
// parameter. Everything else is matched literally.
func createPathRegex(pattern string) *regexp.Regexp {
	pattern = normalizePath(pattern)

	var sb strings.Builder
	sb.WriteString("^")
	last := 0
	for _, loc := range paramPattern.FindAllStringSubmatchIndex(pattern, -1) {
		sb.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		sb.WriteString("(?P<")
		sb.WriteString(pattern[loc[2]:loc[3]])
		sb.WriteString(">[^/]+)")
		last = loc[1]
	}
	sb.WriteString(regexp.QuoteMeta(pattern[last:]))
	sb.WriteString("$")

	return regexp.MustCompile(sb.String())
}

func matchPath(route *Route, path string) map[string]string {
	if route.PathRegex != nil {
		matches := route.PathRegex.FindStringSubmatch(path)
		if matches != nil {
			params := make(map[string]string)
			names := route.PathRegex.SubexpNames()
			for i, name := range names {
				if i > 0 && name != "" && i < len(matches) {
					params[name] = matches[i]
				}
			}
			return params
		}
		return nil
	}

	if route.PathPattern == path {
		return make(map[string]string)
	}

	return nil
}
