//go:build !pprof

package profile

import "testing"

func TestDisabled(t *testing.T) {
	if modes := Modes(); len(modes) != 0 {
		t.Errorf("Modes() = %v, want none", modes)
	}

	p := Config{Mode: "cpu", Path: t.TempDir()}.Start()

	if _, ok := p.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op controller", p)
	}

	p.Stop()
}
