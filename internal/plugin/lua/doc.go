// Package lua implements minor modes in Lua.
//
// A script defines any of these globals; missing ones fall back to the
// defaults of mode.MinorBase:
//
//	on_activate()          on_deactivate()        update()
//	render(vi)             ui(vi)                 menu()
//	toolbar()
//	hover_bid(x, y) -> n   hovering(x, y)
//	drag_bid(x, y)  -> n   dragging(x, y, start, finish)
//
// vi is a table with x, y, dt, start, finish, width and height.
//
// Scripts can call back into the host:
//
//	log(msg)                          write to the stagecraft log
//	enqueue(message [, exec [, undo]]) queue a transaction; exec and undo
//	                                  are Lua functions run on apply/undo
//
// # State
//
// State wraps a gopher-lua runtime with only the base, table, string and
// math libraries opened. The loaders (dofile, loadfile, load, loadstring,
// require, module) are removed and print goes to the logger. Every call
// runs under a deadline:
//
//	state, err := lua.NewState(lua.WithCallTimeout(50 * time.Millisecond))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
// A State is not safe for concurrent use by Lua itself; its mutex only
// serializes Go callers.
package lua
