// Package daemon assembles the window manager core: one layout tree,
// the shared registry, the Lua scripting runtime, and the control
// socket, wired together at startup and torn down in reverse order.
package daemon

import (
	"fmt"
	"image"

	"github.com/alderwm/alder/internal/border"
	"github.com/alderwm/alder/internal/config"
	"github.com/alderwm/alder/internal/ipc"
	"github.com/alderwm/alder/internal/layout"
	"github.com/alderwm/alder/internal/logger"
	"github.com/alderwm/alder/internal/registry"
	"github.com/alderwm/alder/internal/script"
	"github.com/alderwm/alder/internal/surface"
)

// Daemon is the running window manager core. External callers reach the
// tree through the control socket; scripts reach it through the Lua
// bindings. Both paths go through the same workspace manager.
type Daemon struct {
	cfg     *config.Config
	manager *layout.Manager
	reg     *registry.Registry
	scripts *script.Runtime
	server  *ipc.SocketServer
	borders border.Style
}

// New validates cfg and assembles a daemon. Nothing is started yet;
// call Start after attaching outputs.
func New(cfg *config.Config) (*Daemon, error) {
	color, err := border.ParseColor(cfg.Border.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid border color %q: %w", cfg.Border.Color, err)
	}

	manager := layout.NewManager(
		layout.WithWorkspacesPerOutput(cfg.Workspaces.PerOutput),
		layout.WithDefaultLayout(layout.ParseLayoutMode(cfg.Workspaces.DefaultLayout)),
	)

	reg := registry.New()
	scriptClient := registry.NewClient(reg, registry.AccessMapping{
		"scripts": registry.PermWrite,
		"daemon":  registry.PermRead,
	})
	scripts := script.New(&script.TreeBindings{Manager: manager, Registry: scriptClient})

	d := &Daemon{
		cfg:     cfg,
		manager: manager,
		reg:     reg,
		scripts: scripts,
		borders: border.Style{Thickness: cfg.Border.Thickness, Color: color},
	}

	server, err := ipc.NewSocketServer(cfg.IPC.SocketPath, d)
	if err != nil {
		return nil, fmt.Errorf("failed to create control socket: %w", err)
	}
	d.server = server
	return d, nil
}

// AttachOutput registers a display with the layout tree. The tree
// populates it with the configured number of workspaces.
func (d *Daemon) AttachOutput(s surface.Surface) *layout.Container {
	return d.manager.AddOutput(s)
}

// Manager returns the workspace manager the daemon drives.
func (d *Daemon) Manager() *layout.Manager {
	return d.manager
}

// SocketPath returns the control socket path.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Start boots the scripting runtime, runs the configured init script,
// and opens the control socket. An init script error is logged, not
// fatal: the manager must come up even with a broken user script.
func (d *Daemon) Start() error {
	if err := d.scripts.Start(); err != nil {
		return fmt.Errorf("failed to start script runtime: %w", err)
	}

	d.reg.Set("daemon.socket", registry.FlagRead, d.server.SocketPath())

	if d.cfg.Script.InitFile != "" {
		if err := d.scripts.RunFile(d.cfg.Script.InitFile); err != nil {
			logger.Warnf("init script failed: %v", err)
		} else {
			logger.Info("init script executed", "file", d.cfg.Script.InitFile)
		}
	}

	if err := d.server.Start(); err != nil {
		d.scripts.Terminate()
		return err
	}
	return nil
}

// Stop closes the control socket, then terminates the scripting
// runtime. After Stop the daemon cannot be restarted.
func (d *Daemon) Stop() {
	d.server.Stop()
	d.scripts.Terminate()
}

// RenderBorder draws the configured border around view into a fresh
// buffer for the presentation layer. Returns false for nodes that have
// no drawable surface.
func (d *Daemon) RenderBorder(view *layout.Container) (*image.RGBA, bool) {
	outer, inner, ok := layout.BorderGeometry(view, d.borders.Thickness)
	if !ok {
		return nil, false
	}
	return border.Render(outer, inner, d.borders), true
}
