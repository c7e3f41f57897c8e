// Package router is a declarative route table: an ordered list of
// (method, path template, predicate, handler) bindings resolved per request.
package router

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrNoRoute is returned by Resolve when no binding accepts the request.
var ErrNoRoute = errors.New("no matching route")

// HeaderFunc returns the value of a request header, or "" when absent.
type HeaderFunc func(key string) string

// Predicate decides whether a binding accepts a request beyond method and path.
type Predicate func(header HeaderFunc) bool

// Params holds the placeholder values extracted from a matched path.
type Params map[string]string

// Get returns the named placeholder, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// HandlerFunc serves a request matched by a binding.
type HandlerFunc func(c *fiber.Ctx, params Params) error

// Binding is a single registered route.
type Binding struct {
	Method    string
	Pattern   string
	Predicate Predicate
	Handler   HandlerFunc

	segments []segment
}

type segment struct {
	literal     string
	placeholder string
}

// Table is built once at startup and is read-only afterwards.
type Table struct {
	prefix   string
	bindings []Binding
}

// New creates an empty table rooted at prefix, e.g. "/api/v2".
func New(prefix string) *Table {
	return &Table{prefix: "/" + strings.Trim(prefix, "/")}
}

// Prefix returns the path prefix shared by every binding.
func (t *Table) Prefix() string {
	return t.prefix
}

// Add registers a binding. Pattern is relative to the table prefix and may contain
// placeholders written as {name}. A nil predicate accepts every request.
func (t *Table) Add(method, pattern string, predicate Predicate, handler HandlerFunc) *Table {
	t.bindings = append(t.bindings, Binding{
		Method:    method,
		Pattern:   pattern,
		Predicate: predicate,
		Handler:   handler,
		segments:  parsePattern(pattern),
	})
	return t
}

func (t *Table) GET(pattern string, predicate Predicate, handler HandlerFunc) *Table {
	return t.Add(fiber.MethodGet, pattern, predicate, handler)
}

func (t *Table) POST(pattern string, predicate Predicate, handler HandlerFunc) *Table {
	return t.Add(fiber.MethodPost, pattern, predicate, handler)
}

func (t *Table) PUT(pattern string, predicate Predicate, handler HandlerFunc) *Table {
	return t.Add(fiber.MethodPut, pattern, predicate, handler)
}

func (t *Table) DELETE(pattern string, predicate Predicate, handler HandlerFunc) *Table {
	return t.Add(fiber.MethodDelete, pattern, predicate, handler)
}

// Bindings returns a copy of the registered bindings in registration order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Resolve scans the bindings in registration order and returns the first one whose
// method, path template and predicate all match.
func (t *Table) Resolve(method, path string, header HeaderFunc) (*Binding, Params, error) {
	rest, ok := t.strip(path)
	if !ok {
		return nil, nil, ErrNoRoute
	}
	parts := splitPath(rest)

	for i := range t.bindings {
		b := &t.bindings[i]
		if b.Method != method {
			continue
		}
		params, ok := b.match(parts)
		if !ok {
			continue
		}
		if b.Predicate != nil && !b.Predicate(header) {
			continue
		}
		return b, params, nil
	}
	return nil, nil, ErrNoRoute
}

// Mount attaches the table to r. Requests under the prefix that no binding accepts
// are passed on with c.Next, so they end as the transport's 404.
func (t *Table) Mount(r fiber.Router) {
	r.Use(t.prefix, t.dispatch)
}

func (t *Table) dispatch(c *fiber.Ctx) error {
	header := func(key string) string { return c.Get(key) }
	binding, params, err := t.Resolve(c.Method(), c.Path(), header)
	if err != nil {
		return c.Next()
	}
	return binding.Handler(c, params)
}

func (t *Table) strip(path string) (string, bool) {
	if !strings.HasPrefix(path, t.prefix) {
		return "", false
	}
	rest := path[len(t.prefix):]
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}

func (b *Binding) match(parts []string) (Params, bool) {
	if len(parts) != len(b.segments) {
		return nil, false
	}
	var params Params
	for i, seg := range b.segments {
		if seg.placeholder == "" {
			if parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		if params == nil {
			params = make(Params, len(b.segments))
		}
		value, err := url.PathUnescape(parts[i])
		if err != nil {
			value = parts[i]
		}
		params[seg.placeholder] = value
	}
	return params, true
}

func parsePattern(pattern string) []segment {
	parts := splitPath(pattern)
	segments := make([]segment, 0, len(parts))
	for _, p := range parts {
		if len(p) > 2 && strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			segments = append(segments, segment{placeholder: p[1 : len(p)-1]})
			continue
		}
		segments = append(segments, segment{literal: p})
	}
	return segments
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
