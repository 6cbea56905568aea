// Package ipc implements the control channel: length-prefixed JSON
// requests over a per-user unix socket. The channel is pure transport;
// every command is translated 1:1 into a workspace manager operation by
// the daemon's handler, and no tree logic lives here.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// CommandType identifies an IPC command.
type CommandType string

const (
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandNewWorkspace    CommandType = "NEW_WORKSPACE"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetTree         CommandType = "GET_TREE"
	CommandRunScript       CommandType = "RUN_SCRIPT"
)

// Request is an IPC request from client to daemon.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is an IPC response from daemon to client.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SwitchWorkspacePayload carries the target index for SWITCH_WORKSPACE.
type SwitchWorkspacePayload struct {
	Index int `json:"index"`
}

// RunScriptPayload carries Lua source for RUN_SCRIPT.
type RunScriptPayload struct {
	Code string `json:"code"`
}

// StatusData is the data returned by GET_STATUS.
type StatusData struct {
	ActiveWorkspace int  `json:"active_workspace"`
	WorkspaceCount  int  `json:"workspace_count"`
	ViewCount       int  `json:"view_count"`
	ScriptRunning   bool `json:"script_running"`
}

// NewRequest creates a request with a marshaled payload.
func NewRequest(command CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		req.Payload = data
	}
	return req, nil
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// OK reports whether the response carries a successful status.
func (r *Response) OK() bool {
	return r.Status == "OK"
}

// maxFrameSize bounds a single message so a bad peer cannot make the
// daemon allocate arbitrarily.
const maxFrameSize = 1 << 20

// writeFrame writes one length-prefixed JSON value: a 4-byte big-endian
// length followed by that many bytes of JSON.
func writeFrame(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(data))); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message data: %w", err)
	}
	return nil
}

// readFrame reads one length-prefixed JSON value into v.
func readFrame(r io.Reader, v interface{}) error {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxFrameSize {
		return fmt.Errorf("message of %d bytes exceeds frame limit", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("failed to read message data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}
