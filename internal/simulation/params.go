package simulation

import (
	"fmt"

	"github.com/nvandessel/schelling/internal/constants"
)

// MaxSize bounds the board dimension so N*N cells stay addressable.
const MaxSize = 1 << 15

// Params configures a simulation run.
type Params struct {
	// Size is the interior dimension N of the board.
	Size int `json:"grid_size"`

	// CountA and CountB are the number of agents of each type.
	CountA int `json:"count_a"`
	CountB int `json:"count_b"`

	// Threshold is the content score below which an agent relocates.
	// Range: 0.0 to 1.0
	Threshold float64 `json:"threshold"`

	// Rounds is the number of relocation rounds.
	Rounds int `json:"rounds"`

	// Mode selects the relocation candidates. Empty means swap.
	Mode constants.Mode `json:"mode"`
}

// DefaultParams returns the classic 60x60 setup: 1400 agents of each type,
// threshold 0.6, 20 rounds, swap relocation.
func DefaultParams() Params {
	return Params{
		Size:      constants.DefaultGridSize,
		CountA:    constants.DefaultCountA,
		CountB:    constants.DefaultCountB,
		Threshold: constants.DefaultThreshold,
		Rounds:    constants.DefaultRounds,
		Mode:      constants.ModeSwap,
	}
}

// Validate checks every parameter before any grid is built.
func (p Params) Validate() error {
	if err := validateBoard(p.Size, p.CountA, p.CountB); err != nil {
		return err
	}
	if err := validateThreshold(p.Threshold); err != nil {
		return err
	}
	if p.Rounds < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidRounds, p.Rounds)
	}
	if p.Mode != "" && !p.Mode.Valid() {
		return fmt.Errorf("%w: %q (valid: swap, vacancy)", ErrUnknownMode, p.Mode)
	}
	return nil
}

func (p Params) mode() constants.Mode {
	if p.Mode == "" {
		return constants.ModeSwap
	}
	return p.Mode
}

func validateBoard(n, countA, countB int) error {
	if n < 1 || n > MaxSize {
		return fmt.Errorf("%w: got %d (max %d)", ErrInvalidSize, n, MaxSize)
	}
	if countA < 0 || countB < 0 {
		return fmt.Errorf("%w: got a=%d b=%d", ErrInvalidCount, countA, countB)
	}
	if countA+countB > n*n {
		return fmt.Errorf("%w: %d + %d agents on a %dx%d grid (%d cells)",
			ErrCapacity, countA, countB, n, n, n*n)
	}
	return nil
}

func validateThreshold(t float64) error {
	// NaN fails both comparisons, so test the valid range directly.
	if !(t >= 0 && t <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}
