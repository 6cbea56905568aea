package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/alderwm/alder/internal/logger"
)

// SocketServer handles incoming IPC connections
type SocketServer struct {
	mu         sync.Mutex
	listener   net.Listener
	socketPath string
	handler    CommandHandler
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	running    bool

	// Open connections, so Stop can close them instead of waiting for
	// idle clients to hang up. Separate lock: handlers add and remove
	// entries while Stop holds mu. draining refuses late arrivals that
	// won the accept race against Stop.
	connMu   sync.Mutex
	conns    map[net.Conn]struct{}
	draining bool
}

// CommandHandler dispatches one decoded request. The daemon implements
// it on top of the workspace manager.
type CommandHandler interface {
	HandleCommand(req *Request) *Response
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(req *Request) *Response

func (f CommandHandlerFunc) HandleCommand(req *Request) *Response {
	return f(req)
}

// NewSocketServer creates a new socket server. An empty socketPath
// selects the per-user default.
func NewSocketServer(socketPath string, handler CommandHandler) (*SocketServer, error) {
	if socketPath == "" {
		var err error
		socketPath, err = defaultSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	return &SocketServer{
		socketPath: socketPath,
		handler:    handler,
		conns:      make(map[net.Conn]struct{}),
	}, nil
}

// Start starts the socket server
func (s *SocketServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Remove existing socket file if it exists
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	// Socket is user-only: anyone who can write it controls the tree
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.running = true

	s.connMu.Lock()
	s.draining = false
	s.conns = make(map[net.Conn]struct{})
	s.connMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptConnections(ctx)

	logger.Infof("IPC socket server started at %s", s.socketPath)
	return nil
}

// Stop stops the socket server
func (s *SocketServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.cancel != nil {
		s.cancel()
	}

	if s.listener != nil {
		s.listener.Close()
	}

	// Unblock handlers parked in readFrame on idle clients.
	s.closeConns()

	s.wg.Wait()

	os.RemoveAll(s.socketPath)

	logger.Info("IPC socket server stopped")
}

// SocketPath returns the path the server listens on.
func (s *SocketServer) SocketPath() string {
	return s.socketPath
}

// acceptConnections accepts and handles incoming connections
func (s *SocketServer) acceptConnections(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					logger.Errorf("Failed to accept connection: %v", err)
					continue
				}
			}

			if !s.trackConn(conn) {
				return
			}
			s.wg.Add(1)
			go s.handleConnection(ctx, conn)
		}
	}
}

// handleConnection handles a single client connection
func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.untrackConn(conn)
	defer conn.Close()

	logger.Debug("New IPC connection established")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var req Request
			if err := readFrame(conn, &req); err != nil {
				logger.Debugf("Connection closed or read error: %v", err)
				return
			}

			response := s.handler.HandleCommand(&req)
			if response == nil {
				response = NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
			}
			if err := writeFrame(conn, response); err != nil {
				logger.Errorf("Failed to send response: %v", err)
				return
			}
		}
	}
}

// trackConn registers conn for shutdown. Reports false when the server
// is already draining; the connection is closed instead of served.
func (s *SocketServer) trackConn(conn net.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.draining {
		conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *SocketServer) untrackConn(conn net.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
}

func (s *SocketServer) closeConns() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.draining = true
	for conn := range s.conns {
		conn.Close()
	}
}

// defaultSocketPath returns the per-user socket path.
func defaultSocketPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	return filepath.Join("/tmp", fmt.Sprintf("alder-%s.sock", currentUser.Username)), nil
}

// DefaultSocketPath returns the per-user socket path (for clients).
func DefaultSocketPath() (string, error) {
	return defaultSocketPath()
}
