// Package script runs Lua programs against a cell store with undo history.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. Two modules are installed as globals:
//
//	cells.define(name, value)   declare a cell (before the first mutation)
//	cells.get(name)             read a cell
//	cells.set(name, value)      commit a new value
//	cells.names()               sorted list of cell names
//
//	history.undo()              history.redo()
//	history.start_batch()       history.end_batch()
//	history.batch(fn)           run fn as a single undo step
//	history.pause()             history.resume()
//	history.past_depth()        history.future_depth()
//	history.can_undo()          history.can_redo()
//
// Lua integers become int64 cells and other numbers float64, so values
// written from Lua compare equal to values written from Go.
//
// The history manager is created on the first mutation or history call.
// Cells can no longer be defined after that point.
//
// Example:
//
//	cells.define("count", 0)
//	history.batch(function()
//	    cells.set("count", cells.get("count") + 1)
//	    cells.set("count", cells.get("count") + 1)
//	end)
//	history.undo()
//	print(cells.get("count"), history.future_depth()) --> 0	1
package script
