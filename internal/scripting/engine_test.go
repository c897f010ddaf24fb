package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func writeScript(t *testing.T, dir, body string) {
	t.Helper()
	combat := filepath.Join(dir, "combat")
	require.NoError(t, os.MkdirAll(combat, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(combat, "damage.lua"), []byte(body), 0o644))
}

func TestBuiltinFormulas(t *testing.T) {
	e := newTestEngine(t, "")

	assert.Equal(t, 12, e.ImpactDamage("hitscan", 12))
	assert.Equal(t, 0, e.ImpactDamage("kinematic", -3))

	assert.Equal(t, 10, e.SplashDamage(10, 0, 6))
	assert.Equal(t, 5, e.SplashDamage(10, 3, 6))
	assert.Equal(t, 0, e.SplashDamage(10, 6, 6))
	assert.Equal(t, 0, e.SplashDamage(10, 9, 6))
	assert.Equal(t, 0, e.SplashDamage(10, 1, 0))
}

func TestScriptsDirOverridesBuiltins(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, `
function calc_impact_damage(ctx)
  if ctx.kind == "homing" then return ctx.base * 2 end
  return ctx.base
end
`)
	e := newTestEngine(t, dir)
	assert.Equal(t, 30, e.ImpactDamage("homing", 15))
	assert.Equal(t, 15, e.ImpactDamage("kinematic", 15))
	assert.Equal(t, 5, e.SplashDamage(10, 3, 6), "untouched formulas keep the builtin")
}

func TestReloadSwapsFormulas(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "function calc_impact_damage(ctx) return 1 end\n")
	e := newTestEngine(t, dir)
	assert.Equal(t, 1, e.ImpactDamage("kinematic", 6))

	writeScript(t, dir, "function calc_impact_damage(ctx) return 2 end\n")
	require.NoError(t, e.Reload())
	assert.Equal(t, 2, e.ImpactDamage("kinematic", 6))

	writeScript(t, dir, "function calc_impact_damage(ctx return 3 end\n")
	assert.Error(t, e.Reload())
	assert.Equal(t, 2, e.ImpactDamage("kinematic", 6), "a broken script keeps the previous VM")
}

func TestRuntimeErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, `
function calc_impact_damage(ctx) error("boom") end
function calc_splash_damage(base, d, r) error("boom") end
`)
	e := newTestEngine(t, dir)
	assert.Equal(t, 7, e.ImpactDamage("kinematic", 7))
	assert.Equal(t, 5, e.SplashDamage(10, 3, 6))
}

func TestBrokenScriptFailsConstruction(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "this is not lua")
	_, err := NewEngine(dir, zap.NewNop())
	assert.ErrorContains(t, err, "load combat scripts")
}

func TestWatcherReportsLuaChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "damage.lua"), []byte("x = 1"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "damage.lua", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no watcher event")
	}

	require.NoError(t, w.Close())
	_, open := <-w.Events
	for open {
		_, open = <-w.Events
	}
}
