package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/alderwm/alder/internal/logger"
)

// Client handles IPC communication with a running alder daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client. An empty socketPath selects the
// per-user default.
func NewClient(socketPath string) (*Client, error) {
	if socketPath == "" {
		var err error
		socketPath, err = DefaultSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}, nil
}

// NewClientWithTimeout creates a new IPC client with custom timeout
func NewClientWithTimeout(socketPath string, timeout time.Duration) (*Client, error) {
	client, err := NewClient(socketPath)
	if err != nil {
		return nil, err
	}
	client.timeout = timeout
	return client, nil
}

// SwitchWorkspace asks the daemon to switch to the given workspace.
func (c *Client) SwitchWorkspace(index int) (*StatusData, error) {
	req, err := NewRequest(CommandSwitchWorkspace, SwitchWorkspacePayload{Index: index})
	if err != nil {
		return nil, err
	}
	return c.sendStatusRequest(req)
}

// NewWorkspace asks the daemon to create a workspace on the first
// output.
func (c *Client) NewWorkspace() (*StatusData, error) {
	req, err := NewRequest(CommandNewWorkspace, nil)
	if err != nil {
		return nil, err
	}
	return c.sendStatusRequest(req)
}

// GetStatus queries the daemon's workspace state.
func (c *Client) GetStatus() (*StatusData, error) {
	req, err := NewRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	return c.sendStatusRequest(req)
}

// GetTree fetches the daemon's layout tree as raw JSON.
func (c *Client) GetTree() (json.RawMessage, error) {
	req, err := NewRequest(CommandGetTree, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RunScript submits Lua source to the daemon's scripting runtime.
func (c *Client) RunScript(code string) error {
	req, err := NewRequest(CommandRunScript, RunScriptPayload{Code: code})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

// IsRunning checks whether an alder daemon answers on the socket.
func (c *Client) IsRunning() bool {
	_, err := c.GetStatus()
	return err == nil
}

func (c *Client) sendStatusRequest(req *Request) (*StatusData, error) {
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status data: %w", err)
	}
	return &status, nil
}

// sendRequest sends a request and returns the response, turning ERROR
// responses into Go errors.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("alder is not running")
		}
		return nil, fmt.Errorf("failed to connect to alder: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeFrame(conn, req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := readFrame(conn, &resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// isConnectionRefused checks if the error is a connection refused error
func isConnectionRefused(err error) bool {
	if netErr, ok := err.(*net.OpError); ok {
		if netErr.Op == "dial" {
			return true
		}
	}
	return false
}
