package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/nvandessel/schelling/internal/constants"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Size != 60 || p.CountA != 1400 || p.CountB != 1400 {
		t.Errorf("unexpected board defaults: %+v", p)
	}
	if p.Threshold != 0.6 {
		t.Errorf("Threshold = %v, want 0.6", p.Threshold)
	}
	if p.Rounds != 20 {
		t.Errorf("Rounds = %d, want 20", p.Rounds)
	}
	if p.Mode != constants.ModeSwap {
		t.Errorf("Mode = %q, want swap", p.Mode)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(p *Params)
		wantErr error
	}{
		{"valid", func(p *Params) {}, nil},
		{"empty mode means swap", func(p *Params) { p.Mode = "" }, nil},
		{"full board", func(p *Params) { p.Size, p.CountA, p.CountB = 2, 2, 2 }, nil},
		{"zero threshold", func(p *Params) { p.Threshold = 0 }, nil},
		{"threshold one", func(p *Params) { p.Threshold = 1 }, nil},
		{"zero size", func(p *Params) { p.Size = 0 }, ErrInvalidSize},
		{"size above max", func(p *Params) { p.Size = MaxSize + 1 }, ErrInvalidSize},
		{"size squared overflows", func(p *Params) { p.Size, p.CountA, p.CountB = math.MaxInt, 0, 0 }, ErrInvalidSize},
		{"huge rounds", func(p *Params) { p.Rounds = 1 << 60 }, nil},
		{"negative count", func(p *Params) { p.CountA = -1 }, ErrInvalidCount},
		{"over capacity", func(p *Params) { p.Size, p.CountA, p.CountB = 3, 5, 5 }, ErrCapacity},
		{"negative threshold", func(p *Params) { p.Threshold = -0.1 }, ErrInvalidThreshold},
		{"threshold above one", func(p *Params) { p.Threshold = 1.01 }, ErrInvalidThreshold},
		{"NaN threshold", func(p *Params) { p.Threshold = math.NaN() }, ErrInvalidThreshold},
		{"zero rounds", func(p *Params) { p.Rounds = 0 }, ErrInvalidRounds},
		{"unknown mode", func(p *Params) { p.Mode = "teleport" }, ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
