// Package ipc serves the motor's protocol over a local unix domain socket.
//
// The server is deliberately single-threaded: one client is served at a
// time, and requests on a connection are handled strictly in order. A
// stale socket file from a previous run is removed before binding.
package ipc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/JesusRamosMembrive/AEGIS/internal/logging"
)

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 1024 * 1024

// MessageHandler processes one request line and returns the response
// bytes without the trailing newline. done requests server shutdown after
// the response is written.
type MessageHandler func(ctx context.Context, line []byte) (resp []byte, done bool)

// Server accepts connections on a unix socket and feeds request lines to
// its handler.
type Server struct {
	socketPath string
	handler    MessageHandler
	log        *logging.Logger

	listener net.Listener
	running  atomic.Bool
}

// NewServer creates a server for the given socket path.
func NewServer(socketPath string, handler MessageHandler, log *logging.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		log:        log,
	}
}

// SocketPath returns the path the server binds to.
func (s *Server) SocketPath() string { return s.socketPath }

// IsRunning reports whether the accept loop is active.
func (s *Server) IsRunning() bool { return s.running.Load() }

// Run binds the socket and serves until Stop is called or a handler
// requests shutdown. It blocks the calling goroutine.
func (s *Server) Run(ctx context.Context) error {
	// A previous run may have left its socket file behind
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.socketPath, err)
	}
	s.listener = listener
	s.running.Store(true)
	defer s.cleanup()

	s.log.Info("listening", map[string]interface{}{
		"socket": s.socketPath,
	})

	for s.running.Load() {
		conn, err := listener.Accept()
		if err != nil {
			if !s.running.Load() {
				break
			}
			s.log.Warn("accept failed", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		if s.serveConn(ctx, conn) {
			s.running.Store(false)
		}
	}

	return nil
}

// Stop ends the accept loop and releases the socket. Safe to call from
// another goroutine and more than once.
func (s *Server) Stop() {
	s.running.Store(false)
	s.cleanup()
}

func (s *Server) cleanup() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	_ = os.Remove(s.socketPath)
}

// serveConn reads newline-delimited requests until the client disconnects.
// Returns true when a handler asked for shutdown.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) bool {
	defer conn.Close()

	connID := uuid.NewString()
	s.log.Debug("client connected", map[string]interface{}{
		"conn_id": connID,
	})

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)

	for s.running.Load() && sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		resp, done := s.handler(ctx, line)
		if _, err := conn.Write(append(resp, '\n')); err != nil {
			s.log.Warn("write failed", map[string]interface{}{
				"conn_id": connID,
				"error":   err.Error(),
			})
			return false
		}
		if done {
			return true
		}
	}

	if err := sc.Err(); err != nil {
		s.log.Debug("connection read ended", map[string]interface{}{
			"conn_id": connID,
			"error":   err.Error(),
		})
	}
	s.log.Debug("client disconnected", map[string]interface{}{
		"conn_id": connID,
	})
	return false
}
