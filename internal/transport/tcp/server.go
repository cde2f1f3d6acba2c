package tcp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/figstore/internal/config"
)

// Server accepts TLS connections and runs one Handler per client.
// All shared services are injected at construction; handlers receive
// them by reference.
type Server struct {
	cfg     config.ServerConfig
	figures figureService
	gate    authGate
	log     *slog.Logger

	clientSeq atomic.Int64

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
}

// NewServer creates a listener bound to the shared services.
func NewServer(log *slog.Logger, cfg config.ServerConfig, figures figureService, gate authGate) *Server {
	return &Server{
		cfg:     cfg,
		figures: figures,
		gate:    gate,
		log:     log.With("component", "server"),
		conns:   make(map[net.Conn]struct{}),
	}
}

// LoadTLSConfig builds the server TLS setup from the configured
// certificate pair. TLS 1.3 only.
func LoadTLSConfig(cfg config.ServerConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
		MaxVersion:   tls.VersionTLS13,
	}, nil
}

// Addr returns the bound listener address, or nil before Run has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run listens until ctx is cancelled, then closes the listener and every
// open client connection and waits for in-flight handlers to drain. Closing
// the connections is what unblocks handlers parked in a read; without it an
// idle client would hold shutdown up indefinitely.
func (s *Server) Run(ctx context.Context) error {
	tlsCfg, err := LoadTLSConfig(s.cfg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	ln, err := tls.Listen("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.log.InfoContext(ctx, "server listening", slog.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.WarnContext(ctx, "accept failed", slog.String("error", err.Error()))
			continue
		}

		clientID := s.clientSeq.Add(1)
		h := NewHandler(s.log, conn, s.figures, s.gate, clientID, s.cfg.ReadTimeout)

		s.track(conn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.untrack(conn)
			h.Serve(ctx)
		}()
	}

	s.log.InfoContext(ctx, "server stopping, draining clients")
	s.closeConns()
	wg.Wait()
	s.log.InfoContext(ctx, "server stopped")
	return nil
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}
