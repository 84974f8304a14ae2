package router

import (
	"net/http"
)

// Router abstracts the HTTP mux so implementations can be swapped without
// touching handler code. Endpoints are "METHOD /path" strings.
type Router interface {
	http.Handler

	Handle(endpoint string, handler http.Handler)
	HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request))

	// Param extracts a named path parameter from the request.
	Param(req *http.Request, key string) string

	// Register mounts a set of route chains.
	Register(chains Chains)
}

// Route pairs an endpoint with a handler and its middleware chain.
type Route struct {
	endpoint    string
	handler     http.Handler
	middlewares []func(http.Handler) http.Handler
}

// Chains is a set of routes registered together.
type Chains []*Route

func NewRoute(endpoint string) *Route {
	return &Route{
		endpoint:    endpoint,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (r *Route) WithHandler(h http.Handler) *Route {
	r.handler = h
	return r
}

func (r *Route) WithHandlerFunc(h func(http.ResponseWriter, *http.Request)) *Route {
	r.handler = http.HandlerFunc(h)
	return r
}

// WithMiddleware adds one or more middlewares to the chain. Middlewares
// execute in the order they are given, outermost first, the same semantics
// as alice-style chaining packages.
func (r *Route) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Route {
	for _, mw := range middlewares {
		r.middlewares = append([]func(http.Handler) http.Handler{mw}, r.middlewares...)
	}
	return r
}

func (r *Route) Endpoint() string {
	return r.endpoint
}

// Handler returns the final handler with all middlewares applied.
func (r *Route) Handler() http.Handler {
	if r.handler == nil {
		panic("route handler cannot be nil")
	}
	handler := r.handler
	for _, mw := range r.middlewares {
		handler = mw(handler)
	}
	return handler
}
