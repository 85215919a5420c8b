package routerhelper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on a router under a shared path prefix.
type RouteGroup struct {
	r      *httprouter.Router
	prefix string
}

func NewRouteGroup(r *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{r: r, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return NewRouteGroup(g.r, g.path(prefix))
}

func (g *RouteGroup) path(p string) string {
	return path.Join(g.prefix, p)
}

func (g *RouteGroup) GET(p string, handle httprouter.Handle) {
	g.r.GET(g.path(p), handle)
}

func (g *RouteGroup) POST(p string, handle httprouter.Handle) {
	g.r.POST(g.path(p), handle)
}

func (g *RouteGroup) Handler(method, p string, handler http.Handler) {
	g.r.Handler(method, g.path(p), handler)
}
