package debug

import (
	"errors"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/jeebie/jeebie/cpu"
)

const breakFunction = "should_break"

var ErrNoBreakFunction = errors.New("script does not define " + breakFunction)

// LuaBreakpoints decides breaks with a script defining
//
//	function should_break(pc, opcode, name) ... end
//
// and leaves waiting to the wrapped controller, whose own breakpoints still
// apply. Scripts can call log(msg). A script failing at run time is logged
// and disabled.
type LuaBreakpoints struct {
	inner    Controller
	state    *lua.LState
	fn       lua.LValue
	logger   *slog.Logger
	disabled bool
}

// NewLuaBreakpoints loads a script file.
func NewLuaBreakpoints(path string, inner Controller) (*LuaBreakpoints, error) {
	return newLuaBreakpoints(inner, slog.Default(), func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// NewLuaBreakpointsFromString loads a script from source, logging with
// logger.
func NewLuaBreakpointsFromString(source string, inner Controller, logger *slog.Logger) (*LuaBreakpoints, error) {
	return newLuaBreakpoints(inner, logger, func(L *lua.LState) error {
		return L.DoString(source)
	})
}

func newLuaBreakpoints(inner Controller, logger *slog.Logger, load func(*lua.LState) error) (*LuaBreakpoints, error) {
	l := &LuaBreakpoints{
		inner:  inner,
		state:  lua.NewState(),
		logger: logger,
	}
	l.state.SetGlobal("log", l.state.NewFunction(l.log))

	if err := load(l.state); err != nil {
		l.state.Close()
		return nil, fmt.Errorf("failed to load breakpoint script: %w", err)
	}

	l.fn = l.state.GetGlobal(breakFunction)
	if l.fn.Type() != lua.LTFunction {
		l.state.Close()
		return nil, ErrNoBreakFunction
	}

	return l, nil
}

func (l *LuaBreakpoints) log(L *lua.LState) int {
	l.logger.Info("Breakpoint script", "log", L.CheckString(1))
	return 0
}

// Close releases the interpreter.
func (l *LuaBreakpoints) Close() {
	l.state.Close()
}

func (l *LuaBreakpoints) ShouldBreak(pc uint16, d cpu.Descriptor) bool {
	if l.inner.ShouldBreak(pc, d) {
		return true
	}
	if l.disabled {
		return false
	}

	err := l.state.CallByParam(lua.P{Fn: l.fn, NRet: 1, Protect: true},
		lua.LNumber(pc), lua.LNumber(d.Opcode), lua.LString(d.Name))
	if err != nil {
		l.disabled = true
		l.logger.Error("Breakpoint script failed, disabling it", "pc", fmt.Sprintf("0x%04X", pc), "error", err)
		return false
	}

	ret := l.state.Get(-1)
	l.state.Pop(1)
	return lua.LVAsBool(ret)
}

func (l *LuaBreakpoints) Await(p Pause) error {
	return l.inner.Await(p)
}
