package servemux

import (
	"net/http"

	"github.com/anvena/launchpad/router"
)

// ServeMuxRouter implements router.Router using net/http ServeMux
type ServeMuxRouter struct {
	*http.ServeMux
}

func (s *ServeMuxRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ServeMux.ServeHTTP(w, r)
}

// Handle registers the handler. Go 1.22's ServeMux accepts the
// "METHOD /path" endpoint form directly.
func (s *ServeMuxRouter) Handle(endpoint string, handler http.Handler) {
	s.ServeMux.Handle(endpoint, handler)
}

func (s *ServeMuxRouter) HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request)) {
	s.ServeMux.HandleFunc(endpoint, handler)
}

func (s *ServeMuxRouter) Param(req *http.Request, key string) string {
	return req.PathValue(key)
}

func (s *ServeMuxRouter) Register(chains router.Chains) {
	for _, route := range chains {
		s.Handle(route.Endpoint(), route.Handler())
	}
}

func New() router.Router {
	return &ServeMuxRouter{ServeMux: http.NewServeMux()}
}
