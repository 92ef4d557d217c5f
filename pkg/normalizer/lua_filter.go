package normalizer

import (
	"os"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// LuaFilter rewrites tokens with a user script.
//
// The script must define a global function filter(token). Returning a
// string replaces the token, returning nil, false or "" drops it. Scripts can
// call nbclass.is_stop_word(token) to consult the configured stop words.
type LuaFilter struct {
	scriptPath string
	isStopWord func(string) bool

	// Lua VM pool for concurrent execution
	vmPool chan *lua.LState
	maxVMs int
}

// NewLuaFilter loads scriptPath and pre-creates poolSize VMs
func NewLuaFilter(scriptPath string, poolSize int, isStopWord func(string) bool) (*LuaFilter, error) {
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, errors.Wrap(err, "lua filter script not found")
	}
	if poolSize <= 0 {
		poolSize = 1
	}
	if isStopWord == nil {
		isStopWord = func(string) bool { return false }
	}

	lf := &LuaFilter{
		scriptPath: scriptPath,
		isStopWord: isStopWord,
		vmPool:     make(chan *lua.LState, poolSize),
		maxVMs:     poolSize,
	}

	for i := 0; i < lf.maxVMs; i++ {
		vm, err := lf.createVM()
		if err != nil {
			lf.Close()
			return nil, err
		}
		lf.vmPool <- vm
	}

	return lf, nil
}

// createVM creates a new Lua VM with the filter script loaded
func (lf *LuaFilter) createVM() (*lua.LState, error) {
	vm := lua.NewState()

	api := vm.NewTable()
	vm.SetField(api, "is_stop_word", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(lf.isStopWord(L.CheckString(1))))
		return 1
	}))
	vm.SetGlobal("nbclass", api)

	if err := vm.DoFile(lf.scriptPath); err != nil {
		vm.Close()
		return nil, errors.Wrapf(err, "failed to load script %s", lf.scriptPath)
	}

	if vm.GetGlobal("filter").Type() != lua.LTFunction {
		vm.Close()
		return nil, errors.Errorf("script %s does not define filter(token)", lf.scriptPath)
	}

	return vm, nil
}

// getVM gets a VM from the pool or creates a new one
func (lf *LuaFilter) getVM() (*lua.LState, error) {
	select {
	case vm := <-lf.vmPool:
		return vm, nil
	default:
		return lf.createVM()
	}
}

// returnVM returns a VM to the pool
func (lf *LuaFilter) returnVM(vm *lua.LState) {
	select {
	case lf.vmPool <- vm:
	default:
		vm.Close()
	}
}

// Apply runs filter(token) over tokens
func (lf *LuaFilter) Apply(tokens []string) ([]string, error) {
	vm, err := lf.getVM()
	if err != nil {
		return nil, err
	}
	defer lf.returnVM(vm)

	fn := vm.GetGlobal("filter")
	filtered := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if err := vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(token)); err != nil {
			return nil, errors.Wrapf(err, "lua filter failed on %q", token)
		}

		ret := vm.Get(-1)
		vm.Pop(1)

		if s, ok := ret.(lua.LString); ok && s != "" {
			filtered = append(filtered, string(s))
		}
	}

	return filtered, nil
}

// Close closes all pooled VMs
func (lf *LuaFilter) Close() {
	for {
		select {
		case vm := <-lf.vmPool:
			vm.Close()
		default:
			return
		}
	}
}
