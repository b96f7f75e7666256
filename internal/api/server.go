package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/binding"
	"github.com/nerrad567/instrument-core/internal/cli"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/infrastructure/config"
	"github.com/nerrad567/instrument-core/internal/infrastructure/logging"
	"github.com/nerrad567/instrument-core/internal/runtime"
	"github.com/nerrad567/instrument-core/internal/uplink"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// StatusSource reports runtime health. *runtime.Runtime implements it.
type StatusSource interface {
	Stats() runtime.Stats
	Status() []runtime.Status
	Ready() bool
}

// UplinkSource reports broker publisher counters. *uplink.Uplink implements it.
type UplinkSource interface {
	Stats() uplink.Stats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Table    *address.Table
	Runtime  StatusSource   // optional
	Uplink   UplinkSource   // optional
	Commands []*cli.Command // served by POST /api/v1/commands
	Version  string
	Session  string
}

// Server is the HTTP API server for an instrument.
//
// It is created with New, registered with the runtime through Binding, and
// started with Start.
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	table   *address.Table
	rt      StatusSource
	uplink  UplinkSource
	version string
	session string

	// byPath maps an address without its leading slash to its table address.
	byPath map[string]string

	bridge   *bridge
	hub      *Hub
	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc // cancels the hub on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called, but its binding must be
// registered with the runtime before Setup.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, ErrNoLogger
	}
	if deps.Table == nil {
		return nil, ErrNoTable
	}

	b, err := newBridge(deps.Table, deps.Commands)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		table:   deps.Table,
		rt:      deps.Runtime,
		uplink:  deps.Uplink,
		version: deps.Version,
		session: deps.Session,
		byPath:  make(map[string]string, deps.Table.Len()),
		bridge:  b,
	}
	for _, en := range deps.Table.Entries() {
		s.byPath[strings.TrimPrefix(en.Address, "/")] = en.Address
	}

	s.hub = NewHub(deps.WS, deps.Logger, s.setEndpoint)
	b.exchange.SetLogger(deps.Logger.With("binding", bridgeName))
	b.exchange.OnChange = func(changed []binding.Reading) {
		s.hub.Publish(EventEndpointChanged, changed)
	}
	b.exchange.OnWrite = func(w binding.Write, err error) {
		if err != nil {
			s.hub.Publish(EventWriteRejected, WriteRejected{
				Address: w.Address,
				Value:   w.Value,
				Source:  w.Source,
				Error:   err.Error(),
			})
		}
	}

	return s, nil
}

// Binding returns the runtime binding that carries API writes, commands and
// snapshots. Register it with the runtime before Setup.
func (s *Server) Binding() runtime.Binding { return s.bridge }

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler { return s.buildRouter() }

// Start begins listening for HTTP connections and starts the WebSocket hub.
// The listener is bound before Start returns, so a port in use is reported
// here; serving continues in a background goroutine until Close.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listening on %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	s.listener = ln

	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("API server starting", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server and disconnects WebSocket clients.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
		<-s.hub.Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// resolve maps a path-form address ("pad/gain" or "/pad/gain") to its table
// address and endpoint.
func (s *Server) resolve(addr string) (string, *component.Endpoint, bool) {
	full, ok := s.byPath[strings.TrimPrefix(addr, "/")]
	if !ok {
		return "", nil, false
	}
	e, ok := s.table.Lookup(full)
	return full, e, ok
}

// setEndpoint checks that addr names a writable input and queues value for
// the next tick.
func (s *Server) setEndpoint(addr, value, source string) (string, error) {
	full, e, ok := s.resolve(addr)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}
	if err := binding.Writable(e); err != nil {
		return full, err
	}
	return full, s.bridge.exchange.Post(binding.Write{Address: full, Value: value, Source: source})
}
