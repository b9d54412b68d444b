package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const pulse = `
function console_pulse(ctx)
  if ctx.paradox > 10 then
    return {{op = "fail", message = "console overloaded"}}
  end
  return {
    {op = "paradox", dx = 0, dy = 1, amount = 2.5},
    {op = "give", item = "crystal", quantity = 2},
    {op = "notice", message = "hum from " .. ctx.building},
  }
end

function silent(ctx)
  return nil
end

function broken(ctx)
  return 7
end
`

func TestRunBehaviorDecodesCommands(t *testing.T) {
	e, err := NewEngineFromSource(pulse, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	cmds, err := e.RunBehavior("console_pulse", BehaviorContext{Building: "console", Slot: -1})
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, Command{Op: "paradox", DY: 1, Amount: 2.5}, cmds[0])
	assert.Equal(t, Command{Op: "give", Item: "crystal", Quantity: 2}, cmds[1])
	assert.Equal(t, "hum from console", cmds[2].Message)

	cmds, err = e.RunBehavior("console_pulse", BehaviorContext{Paradox: 11})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "fail", cmds[0].Op)
}

func TestRunBehaviorErrors(t *testing.T) {
	e, err := NewEngineFromSource(pulse, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	cmds, err := e.RunBehavior("silent", BehaviorContext{})
	require.NoError(t, err)
	assert.Empty(t, cmds)

	_, err = e.RunBehavior("broken", BehaviorContext{})
	assert.Error(t, err)
	_, err = e.RunBehavior("missing", BehaviorContext{})
	assert.Error(t, err)

	assert.True(t, e.Has("console_pulse"))
	assert.False(t, e.Has("missing"))
}

func TestNewEngineLoadsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "behavior"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "behavior", "vent.lua"),
		[]byte(`function vent(ctx) return {{op = "paradox", amount = -1}} end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "behavior", "README.txt"), []byte("ignored"), 0o644))

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	assert.True(t, e.Has("vent"))
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core", "bad.lua"), []byte("function (("), 0o644))

	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
