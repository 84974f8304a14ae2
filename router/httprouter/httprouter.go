package httprouter

import (
	"net/http"
	"strings"

	"github.com/anvena/launchpad/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Router implements router.Router on julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

// Handle splits the "METHOD /path" endpoint form and translates {name}
// path parameters to httprouter's :name syntax. An endpoint without a
// method registers as GET.
func (r *Router) Handle(endpoint string, handler http.Handler) {
	method, path := splitEndpoint(endpoint)
	r.rt.Handler(method, translateParams(path), handler)
}

func (r *Router) HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request)) {
	r.Handle(endpoint, http.HandlerFunc(handler))
}

func (r *Router) Param(req *http.Request, key string) string {
	params := jshttprouter.ParamsFromContext(req.Context())
	return params.ByName(key)
}

func (r *Router) Register(chains router.Chains) {
	for _, route := range chains {
		r.Handle(route.Endpoint(), route.Handler())
	}
}

func New() router.Router {
	return &Router{rt: jshttprouter.New()}
}

func splitEndpoint(endpoint string) (method, path string) {
	method, path, found := strings.Cut(endpoint, " ")
	if !found {
		return http.MethodGet, endpoint
	}
	return method, path
}

func translateParams(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			segments[i] = ":" + seg[1:len(seg)-1]
		}
	}
	return strings.Join(segments, "/")
}
