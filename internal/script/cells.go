package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cellundo/internal/store"
)

// cellsModule implements the cells API module.
type cellsModule struct {
	host *Host
}

func newCellsModule(h *Host) *cellsModule {
	return &cellsModule{host: h}
}

func (m *cellsModule) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "define", L.NewFunction(m.define))
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "names", L.NewFunction(m.names))
	L.SetGlobal("cells", mod)
}

// define(name, value) -> nil
func (m *cellsModule) define(L *lua.LState) int {
	name := L.CheckString(1)
	value := toGo(L.CheckAny(2))

	if m.host.sealed() {
		L.RaiseError("define %s: %v", name, ErrCellsSealed)
		return 0
	}
	if err := m.host.store.Define(store.CellID(name), value); err != nil {
		L.RaiseError("define: %v", err)
	}
	return 0
}

// get(name) -> value
// Unknown cells read as nil.
func (m *cellsModule) get(L *lua.LState) int {
	name := L.CheckString(1)
	L.Push(toLua(L, m.host.store.Get(store.CellID(name))))
	return 1
}

// set(name, value) -> nil
func (m *cellsModule) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := toGo(L.CheckAny(2))

	m.host.manager()
	if err := m.host.store.Set(store.CellID(name), value); err != nil {
		L.RaiseError("set: %v", err)
	}
	return 0
}

// names() -> {name, ...}
func (m *cellsModule) names(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range m.host.store.Cells() {
		t.Append(lua.LString(id))
	}
	L.Push(t)
	return 1
}
