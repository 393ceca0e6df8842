package system

import (
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/arena/prefabs"
)

// BossTrigger evaluates a tengo script deciding when the boss appears. The
// script sees elapsed_ms, kills and bosses and must set spawn.
type BossTrigger struct {
	scriptPath string
	compiled   *tengo.Compiled
}

func LoadBossTrigger(path string) (*BossTrigger, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("boss trigger: load %s: %w", path, err)
	}
	return NewBossTrigger(path, src)
}

func NewBossTrigger(name string, src []byte) (*BossTrigger, error) {
	script := tengo.NewScript(src)
	_ = script.Add("elapsed_ms", int64(0))
	_ = script.Add("kills", int64(0))
	_ = script.Add("bosses", int64(0))

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("boss trigger: compile %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("boss trigger: run %s: %w", name, err)
	}
	if !compiled.IsDefined("spawn") {
		return nil, fmt.Errorf("boss trigger: %s does not define spawn", name)
	}
	return &BossTrigger{scriptPath: name, compiled: compiled}, nil
}

func (b *BossTrigger) Check(elapsed time.Duration, kills, bosses int) (bool, error) {
	if b == nil || b.compiled == nil {
		return false, nil
	}
	if err := b.compiled.Set("elapsed_ms", elapsed.Milliseconds()); err != nil {
		return false, err
	}
	if err := b.compiled.Set("kills", int64(kills)); err != nil {
		return false, err
	}
	if err := b.compiled.Set("bosses", int64(bosses)); err != nil {
		return false, err
	}
	if err := b.compiled.Run(); err != nil {
		return false, fmt.Errorf("boss trigger: run %s: %w", b.scriptPath, err)
	}
	return b.compiled.Get("spawn").Bool(), nil
}

func (b *BossTrigger) Path() string {
	return b.scriptPath
}
