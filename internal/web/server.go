// Package web serves the process-intents realize endpoint over HTTP.
//
// This is the remote collaborator the intent queue talks to, hosted
// locally so the realize loop is exercisable without an upstream system.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regloapp/reglo/internal/instances"
)

// Server wraps the instance store behind a gin router.
type Server struct {
	store  *instances.Store
	router *gin.Engine
}

// NewServer creates the server and registers routes.
func NewServer(store *instances.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{store: store, router: gin.New()}
	s.router.Use(gin.Recovery())
	s.routes()
	return s
}

// Router exposes the underlying handler for http.Server and for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	api.POST("/process-intents/realize", s.handleRealize)
	api.GET("/process-instances", s.handleListInstances)
}
