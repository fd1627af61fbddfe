package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dreamcatcher45/jserve/pkg/api"
	"github.com/dreamcatcher45/jserve/pkg/storage"
)

// Server holds references to storage, router, etc.
type Server struct {
	router   *mux.Router
	dbEngine *storage.StorageEngine
	handler  *api.Handler
}

// NewServer creates a new instance of Server.
func NewServer(options ...storage.StorageOption) *Server {
	dbEngine := storage.NewStorageEngine(options...)
	s := &Server{
		router:   mux.NewRouter(),
		dbEngine: dbEngine,
		handler:  api.NewHandler(dbEngine),
	}
	// Define HTTP routes
	s.handler.RegisterRoutes(s.router)

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "route not found")
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// InitDB creates the data file when missing and loads it. Every later
// mutation is written back to the same file.
func (s *Server) InitDB(filename string) error {
	if err := s.dbEngine.Open(filename); err != nil {
		log.Printf("ERROR: Could not load DB from file %s: %v", filename, err)
		return err
	}
	log.Printf("INFO: Loaded DB from file %s successfully", filename)
	return nil
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Storage exposes the storage engine.
func (s *Server) Storage() *storage.StorageEngine {
	return s.dbEngine
}

// Endpoints returns the URL of every loaded collection under baseURL
func (s *Server) Endpoints(baseURL string) []string {
	names := s.dbEngine.ListCollections()
	endpoints := make([]string, 0, len(names))
	for _, name := range names {
		endpoints = append(endpoints, fmt.Sprintf("%s/%s", baseURL, name))
	}
	return endpoints
}

// StartBackgroundWorkers starts the storage engine's background workers
func (s *Server) StartBackgroundWorkers() {
	s.dbEngine.StartBackgroundWorkers()
}

// StopBackgroundWorkers stops the storage engine's background workers
func (s *Server) StopBackgroundWorkers() {
	s.dbEngine.StopBackgroundWorkers()
}
