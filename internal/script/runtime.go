// Package script hosts the embedded Lua runtime used for configuration
// and extension. A lua.LState is not safe for concurrent use, so the
// runtime pins it to one goroutine and serves requests over a channel;
// callers block on a per-request reply channel.
package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/alderwm/alder/internal/logger"
)

var (
	// ErrNotRunning is returned when the runtime has terminated or was
	// never started.
	ErrNotRunning = errors.New("script runtime not running")
)

type queryKind int

const (
	queryRun queryKind = iota
	queryRunFile
	queryPing
	queryTerminate
)

type message struct {
	kind  queryKind
	code  string // source for queryRun, path for queryRunFile
	reply chan error
}

// Binder installs globals into the Lua state before any script runs.
// The daemon uses it to expose the workspace manager and the registry.
type Binder interface {
	Bind(L *lua.LState)
}

// Runtime is the Lua execution thread.
type Runtime struct {
	binder Binder

	mu      sync.Mutex
	queries chan message
	done    chan struct{}
	running bool
	wg      sync.WaitGroup
}

// New creates a runtime that installs binder's globals at start.
// A nil binder is allowed for a bare interpreter.
func New(binder Binder) *Runtime {
	return &Runtime{binder: binder}
}

// Start boots the interpreter on its own goroutine. The runtime is
// ready to execute scripts when Start returns.
func (r *Runtime) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	L := lua.NewState()
	if r.binder != nil {
		r.binder.Bind(L)
	}

	r.queries = make(chan message)
	r.done = make(chan struct{})
	r.running = true
	r.wg.Add(1)
	go r.loop(L, r.queries, r.done)

	logger.Debug("script runtime started")
	return nil
}

// loop is the Lua thread: wait for a message, handle it, send the
// reply. It owns L exclusively until terminated. Closing done tells
// senders still racing toward the queries channel that nobody will
// receive them.
func (r *Runtime) loop(L *lua.LState, queries <-chan message, done chan struct{}) {
	defer r.wg.Done()
	defer L.Close()
	defer close(done)

	for msg := range queries {
		switch msg.kind {
		case queryRun:
			msg.reply <- L.DoString(msg.code)
		case queryRunFile:
			msg.reply <- L.DoFile(msg.code)
		case queryPing:
			msg.reply <- nil
		case queryTerminate:
			msg.reply <- nil
			return
		}
	}
}

// send dispatches one message to the Lua thread and waits for its
// reply. A sender that loses the race against a concurrent terminate
// (running observed true, loop already gone by the time it reaches the
// channel) bails out on done instead of blocking forever.
func (r *Runtime) send(kind queryKind, code string) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	queries := r.queries
	done := r.done
	if kind == queryTerminate {
		r.running = false
	}
	r.mu.Unlock()

	// The reply channel is buffered: loop answers every message it
	// receives, even the one that terminates it, so a successful send
	// is always followed by a reply.
	reply := make(chan error, 1)
	select {
	case queries <- message{kind: kind, code: code, reply: reply}:
		return <-reply
	case <-done:
		return ErrNotRunning
	}
}

// Run executes Lua source and returns its error, if any.
func (r *Runtime) Run(code string) error {
	if err := r.send(queryRun, code); err != nil {
		if errors.Is(err, ErrNotRunning) {
			return err
		}
		return fmt.Errorf("script error: %w", err)
	}
	return nil
}

// RunFile executes a Lua file, typically the init script from config.
func (r *Runtime) RunFile(path string) error {
	if err := r.send(queryRunFile, path); err != nil {
		if errors.Is(err, ErrNotRunning) {
			return err
		}
		return fmt.Errorf("script error in %s: %w", path, err)
	}
	return nil
}

// Ping round-trips through the Lua thread, confirming it is alive.
func (r *Runtime) Ping() error {
	return r.send(queryPing, "")
}

// Terminate shuts the interpreter down. Further calls return
// ErrNotRunning.
func (r *Runtime) Terminate() {
	if err := r.send(queryTerminate, ""); err != nil {
		return
	}
	r.wg.Wait()
	logger.Debug("script runtime terminated")
}

// Running reports whether the runtime accepts requests.
func (r *Runtime) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
