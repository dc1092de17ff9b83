// Package server implements the TCP listener that answers every connection
// with a fixed HTTP response.
package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for connection handling.
var (
	connectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "server_connections_accepted_total",
		Help: "Total number of accepted connections",
	})

	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "server_connections_active",
		Help: "Number of connections currently being handled",
	})

	responsesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "server_responses_written_total",
		Help: "Total number of fixed responses written in full",
	})

	connectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "server_connection_errors_total",
		Help: "Total connection errors by operation",
	}, []string{"op"}) // "accept", "read", "write"
)

const (
	// DefaultAddress is the fixed local listen address.
	DefaultAddress = "127.0.0.1:8080"

	// DefaultReadBufferSize bounds the single read performed per connection.
	DefaultReadBufferSize = 4096

	maxAcceptDelay = time.Second
)

// Config holds the listener configuration.
type Config struct {
	// Address to bind, host:port.
	Address string

	// ReadBufferSize is the maximum number of request bytes observed.
	ReadBufferSize int

	// ReadTimeout bounds the request read; 0 waits indefinitely.
	ReadTimeout time.Duration
}

// DefaultConfig returns the default listener configuration.
func DefaultConfig() Config {
	return Config{
		Address:        DefaultAddress,
		ReadBufferSize: DefaultReadBufferSize,
	}
}

// Server accepts TCP connections and serves each in its own goroutine.
type Server struct {
	cfg    Config
	logger zerolog.Logger

	mu sync.Mutex
	ln net.Listener
}

// New creates a server. Zero config fields take their defaults.
func New(cfg Config) *Server {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}

	return &Server{
		cfg:    cfg,
		logger: log.With().Str("component", "server").Logger(),
	}
}

// Listen binds the listening socket.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return &BindError{Addr: s.cfg.Address, Err: err}
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Listening for connections")
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve runs the accept loop. Accept errors are logged and the loop goes on;
// Serve only returns after the listener has been closed.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server: Serve called before Listen")
	}

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			connectionErrors.WithLabelValues("accept").Inc()

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.logger.Error().Err(err).Dur("retry_in", delay).Msg("Unable to accept connection")
			time.Sleep(delay)
			continue
		}
		delay = 0

		connectionsAccepted.Inc()
		go s.handleConn(conn)
	}
}

// ListenAndServe binds the listener and runs the accept loop.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Close closes the listener, which makes Serve return. Connections already
// being handled run to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handleConn reads once, writes the fixed response and closes conn.
// The write is attempted whatever the outcome of the read.
func (s *Server) handleConn(conn net.Conn) {
	connectionsActive.Inc()
	defer connectionsActive.Dec()

	connID := uuid.NewString()
	logger := s.logger.With().
		Str("conn_id", connID).
		Str("remote", remoteAddr(conn)).
		Logger()

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug().Err(err).Msg("Close failed")
		}
	}()

	s.readRequest(conn, connID, logger)
	s.writeResponse(conn, connID, logger)
}

func (s *Server) readRequest(conn net.Conn, connID string, logger zerolog.Logger) {
	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			logger.Debug().Err(err).Msg("Set read deadline failed")
		}
	}

	buf := make([]byte, s.cfg.ReadBufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		connectionErrors.WithLabelValues("read").Inc()
		logger.Warn().Err(&ConnError{ConnID: connID, Op: "read", Err: err}).Msg("Unable to read stream")
		return
	}

	logger.Debug().
		Int("bytes", n).
		Str("request", strings.ToValidUTF8(string(buf[:n]), "\uFFFD")).
		Msg("Request received")
}

func (s *Server) writeResponse(conn net.Conn, connID string, logger zerolog.Logger) {
	if _, err := conn.Write(fixedResponse); err != nil {
		connectionErrors.WithLabelValues("write").Inc()
		logger.Warn().Err(&ConnError{ConnID: connID, Op: "write", Err: err}).Msg("Failed sending response")
		return
	}

	responsesWritten.Inc()
	logger.Debug().Msg("Response sent")
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
