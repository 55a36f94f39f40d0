package script

import (
	lua "github.com/yuin/gopher-lua"
)

// historyModule implements the history API module.
type historyModule struct {
	host *Host
}

func newHistoryModule(h *Host) *historyModule {
	return &historyModule{host: h}
}

func (m *historyModule) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "undo", L.NewFunction(m.action(func() { m.host.manager().Undo() })))
	L.SetField(mod, "redo", L.NewFunction(m.action(func() { m.host.manager().Redo() })))
	L.SetField(mod, "start_batch", L.NewFunction(m.action(func() { m.host.manager().StartBatch() })))
	L.SetField(mod, "end_batch", L.NewFunction(m.action(func() { m.host.manager().EndBatch() })))
	L.SetField(mod, "pause", L.NewFunction(m.action(func() { m.host.manager().PauseTracking() })))
	L.SetField(mod, "resume", L.NewFunction(m.action(func() { m.host.manager().ResumeTracking() })))
	L.SetField(mod, "batch", L.NewFunction(m.batch))
	L.SetField(mod, "past_depth", L.NewFunction(m.pastDepth))
	L.SetField(mod, "future_depth", L.NewFunction(m.futureDepth))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(m.canRedo))
	L.SetGlobal("history", mod)
}

func (m *historyModule) action(fn func()) lua.LGFunction {
	return func(*lua.LState) int {
		fn()
		return 0
	}
}

// batch(fn) -> nil
// Runs fn inside a batch. The batch is closed even if fn raises, and the
// error is re-raised.
func (m *historyModule) batch(L *lua.LState) int {
	fn := L.CheckFunction(1)

	var err error
	m.host.manager().Batch(func() {
		err = L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.RaiseError("batch: %v", err)
	}
	return 0
}

// past_depth() -> n
func (m *historyModule) pastDepth(L *lua.LState) int {
	L.Push(lua.LNumber(m.host.manager().PastDepth()))
	return 1
}

// future_depth() -> n
func (m *historyModule) futureDepth(L *lua.LState) int {
	L.Push(lua.LNumber(m.host.manager().FutureDepth()))
	return 1
}

// can_undo() -> bool
func (m *historyModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.host.manager().CanUndo()))
	return 1
}

// can_redo() -> bool
func (m *historyModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.host.manager().CanRedo()))
	return 1
}
