package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/palegrave/nirikit/internal/logging"
)

// connTimeout bounds how long a single request/response exchange may take.
const connTimeout = 10 * time.Second

// Server answers JSON-line requests on the daemon's unix socket.
type Server struct {
	path     string
	listener net.Listener
	handle   func(context.Context, Request) Response
}

// NewServer binds the socket, replacing a stale file left by a dead daemon.
// It fails if a live daemon already answers on the path.
func NewServer(path string, handle func(context.Context, Request) Response) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating runtime directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		conn, err := net.DialTimeout("unix", path, time.Second)
		if err == nil {
			conn.Close()
			return nil, fmt.Errorf("daemon already running on %s", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("removing stale socket: %w", err)
		}
		logging.Get().Info().Str("socket", path).Msg("removed stale daemon socket")
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("binding daemon socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restricting socket permissions: %w", err)
	}
	return &Server{path: path, listener: listener, handle: handle}, nil
}

// Path returns the bound socket path.
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			writeResponse(conn, Response{Error: "bad request: " + err.Error()})
			return
		}
		writeResponse(conn, s.handle(ctx, req))
	}
}

func writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Get().Warn().Err(err).Msg("encoding daemon response failed")
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		logging.Get().Warn().Err(err).Msg("writing daemon response failed")
	}
}

// Close stops accepting and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}
