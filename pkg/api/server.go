// Package api is the HTTP transport edge for the travel planning chatroom:
// it exposes the SSE chat/events endpoints, participant issuance, health,
// and the two read/write persistence routes (bills, travel plans). All
// routes hang off one Echo v5 Server struct wired with constructor
// dependencies and registered once in setupRoutes.
package api

import (
	"context"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/config"
	"github.com/codeready-toolchain/travelroom/pkg/database"
	"github.com/codeready-toolchain/travelroom/pkg/events"
	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
	"github.com/codeready-toolchain/travelroom/pkg/participants"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg          *config.Config
	db           *database.Client
	executor     *orchestrator.Executor
	bus          *events.Bus
	participants *participants.Registry
}

// NewServer creates a new API server with Echo v5 and registers every
// route.
func NewServer(cfg *config.Config, db *database.Client, executor *orchestrator.Executor, bus *events.Bus, parts *participants.Registry) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		echo:         e,
		cfg:          cfg,
		db:           db,
		executor:     executor,
		bus:          bus,
		participants: parts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Use(securityHeaders())
	s.echo.Use(corsHeaders())

	s.echo.GET("/health", s.healthHandler)

	s.echo.GET("/user", s.getUserHandler)
	s.echo.POST("/user", s.postUserHandler)

	s.echo.POST("/chat", s.chatHandler)
	s.echo.GET("/events", s.eventsHandler)

	s.echo.GET("/bills", s.listBillsHandler)
	s.echo.POST("/bills", s.createBillsHandler)
	s.echo.GET("/bills/:id", s.getBillHandler)

	s.echo.GET("/travel-plans", s.listTravelPlansHandler)
	s.echo.GET("/travel-plans/:id", s.getTravelPlanHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener. Used
// by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
