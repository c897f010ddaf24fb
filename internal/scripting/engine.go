package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed lua
var builtin embed.FS

// Engine wraps a single gopher-lua VM holding the damage formulas.
// Single-goroutine access only (match loop). Reload swaps the VM in place.
type Engine struct {
	vm         *lua.LState
	scriptsDir string
	log        *zap.Logger
}

// NewEngine creates a Lua engine with the built-in formulas, then loads
// scriptsDir/combat on top of them when scriptsDir is set.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := &Engine{scriptsDir: scriptsDir, log: log}
	vm, err := e.build()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

func (e *Engine) build() (*lua.LState, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := loadEmbedded(vm, "lua/combat"); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin combat scripts: %w", err)
	}
	if e.scriptsDir != "" {
		if err := e.loadDir(vm, filepath.Join(e.scriptsDir, "combat")); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load combat scripts: %w", err)
		}
	}
	return vm, nil
}

// Reload rebuilds the VM from disk. On failure the previous VM stays active.
func (e *Engine) Reload() error {
	vm, err := e.build()
	if err != nil {
		return err
	}
	e.vm.Close()
	e.vm = vm
	e.log.Info("lua scripts reloaded", zap.String("dir", e.scriptsDir))
	return nil
}

// ScriptsDir returns the override directory, empty when only built-ins run.
func (e *Engine) ScriptsDir() string { return e.scriptsDir }

func loadEmbedded(vm *lua.LState, dir string) error {
	entries, err := fs.ReadDir(builtin, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".lua" {
			continue
		}
		p := path.Join(dir, entry.Name())
		src, err := builtin.ReadFile(p)
		if err != nil {
			return err
		}
		if err := vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(vm *lua.LState, dir string) error {
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
		p := filepath.Join(dir, entry.Name())
		if err := vm.DoFile(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", p))
	}
	return nil
}

// ImpactDamage calls Lua calc_impact_damage({kind, base}). Falls back to
// base when the function is missing or fails.
func (e *Engine) ImpactDamage(kind string, base int) int {
	fn := e.vm.GetGlobal("calc_impact_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_impact_damage not found")
		return base
	}

	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(kind))
	t.RawSetString("base", lua.LNumber(base))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_impact_damage error", zap.Error(err))
		return base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// SplashDamage calls Lua calc_splash_damage(base, distance, radius).
func (e *Engine) SplashDamage(base int, distance, radius float64) int {
	fn := e.vm.GetGlobal("calc_splash_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_splash_damage not found")
		return linearFalloff(base, distance, radius)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(base), lua.LNumber(distance), lua.LNumber(radius)); err != nil {
		e.log.Error("lua calc_splash_damage error", zap.Error(err))
		return linearFalloff(base, distance, radius)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

func linearFalloff(base int, distance, radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Floor(float64(base) * math.Max(0, 1-distance/radius)))
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
