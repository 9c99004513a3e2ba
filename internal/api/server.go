// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/models"
	"github.com/stevenovak55/bmnboston-sub015/internal/service"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// Service interfaces for dependency injection and testing

// ListingServiceInterface defines the listing lifecycle operations.
type ListingServiceInterface interface {
	Create(ctx context.Context, input *types.ListingInput) (*models.ListingView, error)
	Update(ctx context.Context, id int64, input *types.ListingInput) (*models.ListingView, error)
	ArchiveOrDelete(ctx context.Context, id int64, archive bool) error
	Get(ctx context.Context, id int64, privileged bool) (*models.ListingView, error)
	GetByKey(ctx context.Context, listingKey string, privileged bool) (*models.ListingView, error)
	List(ctx context.Context, filter storage.ListingFilter) (*service.ListingPage, error)
}

// MediaServiceInterface defines the photo operations.
type MediaServiceInterface interface {
	AddPhoto(ctx context.Context, listingID int64, url string) (*models.Photo, error)
	ListPhotos(ctx context.Context, listingID int64) ([]models.Photo, error)
	DeletePhoto(ctx context.Context, photoID string) error
	ReorderPhotos(ctx context.Context, listingID int64, photoIDs []string) error
}

// Server represents the HTTP API server.
type Server struct {
	router         *mux.Router
	httpServer     *http.Server
	listingService ListingServiceInterface
	mediaService   MediaServiceInterface
	config         *ServerConfig
	logger         *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	listingService ListingServiceInterface,
	mediaService MediaServiceInterface,
	logger *logging.Logger,
) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		listingService: listingService,
		mediaService:   mediaService,
		config:         config,
		logger:         logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	// Middleware order matters: the request id must exist before logging.
	s.router.Use(RequestIDMiddleware(s.logger))
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Listing endpoints
	api.HandleFunc("/listings", s.handleCreateListing).Methods("POST")
	api.HandleFunc("/listings", s.handleListListings).Methods("GET")
	api.HandleFunc("/listings/key/{key}", s.handleGetListingByKey).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}", s.handleGetListing).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}", s.handleUpdateListing).Methods("PUT")
	api.HandleFunc("/listings/{id:[0-9]+}", s.handleDeleteListing).Methods("DELETE")

	// Photo endpoints
	api.HandleFunc("/listings/{id:[0-9]+}/photos", s.handleAddPhoto).Methods("POST")
	api.HandleFunc("/listings/{id:[0-9]+}/photos", s.handleListPhotos).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}/photos/order", s.handleReorderPhotos).Methods("PUT")
	api.HandleFunc("/listings/{id:[0-9]+}/photos/{photoId}", s.handleDeletePhoto).Methods("DELETE")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "exclusive-listings",
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
