package gpucmd

import "testing"

func TestStencilIsWinding(t *testing.T) {
	tests := []struct {
		name     string
		settings StencilSettings
		want     bool
	}{
		{"winding", WindingPathStencil(), true},
		{"even-odd", EvenOddPathStencil(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.IsWinding(); got != tt.want {
				t.Errorf("IsWinding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStencilSettingsComparable(t *testing.T) {
	if WindingPathStencil() != WindingPathStencil() {
		t.Error("equal settings compare unequal")
	}
	if WindingPathStencil() == EvenOddPathStencil() {
		t.Error("winding and even-odd settings compare equal")
	}
	if w := EvenOddPathStencil().Front.WriteMask; w != 0x01 {
		t.Errorf("even-odd write mask = %#x, want 0x01", w)
	}
}
