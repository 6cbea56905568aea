package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/alderwm/alder/internal/layout"
	"github.com/alderwm/alder/internal/logger"
	"github.com/alderwm/alder/internal/registry"
)

// TreeBindings exposes the workspace manager and a registry client to
// Lua under the global `alder` table. Scripts drive the tree through
// the same public operations the control socket uses.
type TreeBindings struct {
	Manager  *layout.Manager
	Registry *registry.Client
}

func (b *TreeBindings) Bind(L *lua.LState) {
	tbl := L.NewTable()
	L.SetGlobal("alder", tbl)

	L.SetField(tbl, "switch_workspace", L.NewFunction(b.luaSwitchWorkspace))
	L.SetField(tbl, "new_workspace", L.NewFunction(b.luaNewWorkspace))
	L.SetField(tbl, "active_workspace", L.NewFunction(b.luaActiveWorkspace))
	L.SetField(tbl, "workspace_count", L.NewFunction(b.luaWorkspaceCount))
	L.SetField(tbl, "view_count", L.NewFunction(b.luaViewCount))
	L.SetField(tbl, "log", L.NewFunction(luaLog))

	if b.Registry != nil {
		L.SetField(tbl, "registry_get", L.NewFunction(b.luaRegistryGet))
		L.SetField(tbl, "registry_set", L.NewFunction(b.luaRegistrySet))
	}
}

func (b *TreeBindings) luaSwitchWorkspace(L *lua.LState) int {
	index := L.CheckInt(1)
	if err := b.Manager.SwitchWorkspace(index); err != nil {
		L.RaiseError("switch_workspace: %v", err)
	}
	return 0
}

func (b *TreeBindings) luaNewWorkspace(L *lua.LState) int {
	ws, err := b.Manager.AddWorkspace()
	if err != nil {
		L.RaiseError("new_workspace: %v", err)
	}
	L.Push(lua.LString(ws.Label()))
	return 1
}

func (b *TreeBindings) luaActiveWorkspace(L *lua.LState) int {
	L.Push(lua.LNumber(b.Manager.ActiveWorkspace()))
	return 1
}

func (b *TreeBindings) luaWorkspaceCount(L *lua.LState) int {
	L.Push(lua.LNumber(b.Manager.WorkspaceCount()))
	return 1
}

func (b *TreeBindings) luaViewCount(L *lua.LState) int {
	L.Push(lua.LNumber(b.Manager.ViewCount()))
	return 1
}

func (b *TreeBindings) luaRegistryGet(L *lua.LState) int {
	category := L.CheckString(1)
	key := L.CheckString(2)

	data, err := b.Registry.Get(category, key)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(goToLua(data))
	return 1
}

func (b *TreeBindings) luaRegistrySet(L *lua.LState) int {
	category := L.CheckString(1)
	key := L.CheckString(2)
	value := luaToGo(L.CheckAny(3))

	if err := b.Registry.Set(category, key, value); err != nil {
		L.RaiseError("registry_set: %v", err)
	}
	return 0
}

func luaLog(L *lua.LState) int {
	logger.Info("lua: " + L.CheckString(1))
	return 0
}

// goToLua converts the scalar types the registry stores into Lua
// values.
func goToLua(v interface{}) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua scalar into its Go representation for
// registry storage.
func luaToGo(v lua.LValue) interface{} {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	default:
		return nil
	}
}
