package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), nil, WithDir("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Dir: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("New() = %+v, want %+v", p, want)
	}
}

func TestStartDisabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{name: "empty mode", p: New()},
		{name: "unknown mode", p: New(WithMode("bogus"), WithDir(t.TempDir()), WithQuiet(true))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", s)
			}

			s.Stop()
			s.Stop()
		})
	}
}

func TestEnabled(t *testing.T) {
	if New().Enabled() {
		t.Error("Enabled() with empty mode = true")
	}

	if got := New(WithMode("cpu")).Enabled(); got != Enabled {
		t.Errorf("Enabled() = %v, want %v", got, Enabled)
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if Enabled != slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v with Enabled = %v", modes, Enabled)
	}
}
