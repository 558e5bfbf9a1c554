// Package router assembles the gin engine and the versioned API routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every shop resource is mounted; probes live at the root
const APIPrefix = "/api/v1"

// Route is one endpoint of a Resource
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Resource is a set of routes sharing a path prefix and middleware chain
type Resource struct {
	Name       string
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

func get(path string, h gin.HandlerFunc) Route    { return Route{http.MethodGet, path, h} }
func post(path string, h gin.HandlerFunc) Route   { return Route{http.MethodPost, path, h} }
func put(path string, h gin.HandlerFunc) Route    { return Route{http.MethodPut, path, h} }
func patch(path string, h gin.HandlerFunc) Route  { return Route{http.MethodPatch, path, h} }
func remove(path string, h gin.HandlerFunc) Route { return Route{http.MethodDelete, path, h} }

// Mount registers resources under APIPrefix and returns the API group
func Mount(engine *gin.Engine, resources ...Resource) *gin.RouterGroup {
	api := engine.Group(APIPrefix)
	for _, res := range resources {
		res.mount(api)
	}
	return api
}

func (r Resource) mount(parent *gin.RouterGroup) {
	group := parent.Group(r.Prefix, r.Middleware...)
	for _, route := range r.Routes {
		group.Handle(route.Method, route.Path, route.Handler)
	}
}
