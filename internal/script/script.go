// Package script loads action handlers written in Lua. Scripts run in a
// sandboxed VM and fill a global "handlers" table mapping handler names to
// functions; each function receives a context table and returns whether the
// action used up the turn.
package script

import (
	"fmt"
	"io/fs"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/logger"
)

// Engine owns the Lua VM and the handlers the scripts defined.
// It is not safe for concurrent use.
type Engine struct {
	L        *lua.LState
	handlers map[string]*lua.LFunction
}

// New creates an engine with a sandboxed VM and no scripts loaded.
func New() *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	L.SetGlobal("handlers", L.NewTable())
	return &Engine{L: L, handlers: make(map[string]*lua.LFunction)}
}

// Load executes every .lua file in fsys in name order.
func Load(fsys fs.FS) (*Engine, error) {
	names, err := fs.Glob(fsys, "*.lua")
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}
	sort.Strings(names)

	e := New()
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := e.LoadString(name, string(src)); err != nil {
			e.Close()
			return nil, err
		}
	}
	return e, nil
}

// LoadString executes one script and collects the handlers it defined.
func (e *Engine) LoadString(name, src string) error {
	if err := e.L.DoString(src); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}

	tbl, ok := e.L.GetGlobal("handlers").(*lua.LTable)
	if !ok {
		return fmt.Errorf("%s: global handlers is not a table", name)
	}
	var bad string
	tbl.ForEach(func(k, v lua.LValue) {
		fn, ok := v.(*lua.LFunction)
		if !ok || k.Type() != lua.LTString {
			bad = lua.LVAsString(k)
			return
		}
		e.handlers[k.String()] = fn
	})
	if bad != "" {
		return fmt.Errorf("%s: handler %q is not a function", name, bad)
	}

	logger.For("script").WithField("file", name).
		WithField("handlers", len(e.handlers)).
		Debug("script loaded")
	return nil
}

// Names returns the handler names defined so far, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register binds every scripted handler into reg.
func (e *Engine) Register(reg *action.Registry) error {
	for _, name := range e.Names() {
		fn := e.handlers[name]
		if err := reg.Register(name, e.handler(name, fn)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) handler(name string, fn *lua.LFunction) action.Handler {
	return func(c *action.Context) (action.Result, error) {
		var res action.Result
		ctxTable := e.contextTable(c, &res)
		if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ctxTable); err != nil {
			return action.Result{}, fmt.Errorf("script handler %s: %w", name, err)
		}
		ret := e.L.Get(-1)
		e.L.Pop(1)
		res.TurnPassed = lua.LVAsBool(ret)
		return res, nil
	}
}

// Close releases the VM.
func (e *Engine) Close() {
	e.L.Close()
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}
