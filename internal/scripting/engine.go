package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (the
// step loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir:
// core/ first, then behavior/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "behavior"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromSource builds an engine from inline Lua source.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return &Engine{vm: vm, log: log}, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global Lua function named fn exists.
func (e *Engine) Has(fn string) bool {
	return e.vm.GetGlobal(fn).Type() == lua.LTFunction
}

// BehaviorContext is the pre-packed input of a scripted behavior.
type BehaviorContext struct {
	X, Y     int // acting cell
	TX, TY   int // target cell
	Facing   string
	Slot     int    // -1 for building interactions
	Item     string // kind in Slot, "" for buildings
	Building string // building at target, "" if none
	Paradox  float64
	Player   bool
}

// Command is one instruction returned by a scripted behavior.
// Op is one of: paradox, spawn_item, give, consume, notice, fail.
type Command struct {
	Op       string
	DX, DY   int
	Amount   float64
	Item     string
	Quantity int
	Message  string
}

// RunBehavior calls the Lua function fn with a context table and decodes
// the returned array of command tables.
func (e *Engine) RunBehavior(fn string, ctx BehaviorContext) ([]Command, error) {
	f := e.vm.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return nil, fmt.Errorf("lua function %s not found", fn)
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("tx", lua.LNumber(ctx.TX))
	t.RawSetString("ty", lua.LNumber(ctx.TY))
	t.RawSetString("facing", lua.LString(ctx.Facing))
	t.RawSetString("slot", lua.LNumber(ctx.Slot))
	t.RawSetString("item", lua.LString(ctx.Item))
	t.RawSetString("building", lua.LString(ctx.Building))
	t.RawSetString("paradox", lua.LNumber(ctx.Paradox))
	t.RawSetString("player", lua.LBool(ctx.Player))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behavior error", zap.String("fn", fn), zap.Error(err))
		return nil, fmt.Errorf("lua %s: %w", fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua %s returned %s, want table", fn, result.Type())
	}

	cmds := make([]Command, 0, rt.Len())
	for i := 1; i <= rt.Len(); i++ {
		ct, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("lua %s: command %d is not a table", fn, i)
		}
		cmds = append(cmds, Command{
			Op:       lStr(ct, "op"),
			DX:       lInt(ct, "dx"),
			DY:       lInt(ct, "dy"),
			Amount:   float64(lua.LVAsNumber(ct.RawGetString("amount"))),
			Item:     lStr(ct, "item"),
			Quantity: lInt(ct, "quantity"),
			Message:  lStr(ct, "message"),
		})
	}
	return cmds, nil
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
