package daemon

import (
	"encoding/json"
	"fmt"

	"github.com/alderwm/alder/internal/ipc"
	"github.com/alderwm/alder/internal/logger"
)

// HandleCommand translates one control request into the matching
// workspace manager operation. Every command maps 1:1; the transport
// never touches the tree directly.
func (d *Daemon) HandleCommand(req *ipc.Request) *ipc.Response {
	logger.Debug("control command", "command", req.Command)

	switch req.Command {
	case ipc.CommandSwitchWorkspace:
		var payload ipc.SwitchWorkspacePayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return ipc.NewErrorResponse(fmt.Sprintf("bad payload: %v", err))
		}
		if err := d.manager.SwitchWorkspace(payload.Index); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return d.statusResponse()

	case ipc.CommandNewWorkspace:
		if _, err := d.manager.AddWorkspace(); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return d.statusResponse()

	case ipc.CommandGetStatus:
		return d.statusResponse()

	case ipc.CommandGetTree:
		resp, err := ipc.NewOKResponse(d.manager.Snapshot())
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return resp

	case ipc.CommandRunScript:
		var payload ipc.RunScriptPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return ipc.NewErrorResponse(fmt.Sprintf("bad payload: %v", err))
		}
		if err := d.scripts.Run(payload.Code); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		resp, err := ipc.NewOKResponse(nil)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return resp

	default:
		// The socket server turns a nil response into an
		// unknown-command error.
		return nil
	}
}

func (d *Daemon) statusResponse() *ipc.Response {
	resp, err := ipc.NewOKResponse(&ipc.StatusData{
		ActiveWorkspace: d.manager.ActiveWorkspace(),
		WorkspaceCount:  d.manager.WorkspaceCount(),
		ViewCount:       d.manager.ViewCount(),
		ScriptRunning:   d.scripts.Running(),
	})
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}
