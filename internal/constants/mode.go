package constants

// Mode selects which cells take part in a relocation round.
type Mode string

const (
	// ModeSwap permutes occupants among the dissatisfied agents only.
	ModeSwap Mode = "swap"

	// ModeVacancy permutes occupants among the dissatisfied agents and every
	// vacant cell, so agents can move into empty positions.
	ModeVacancy Mode = "vacancy"
)

// Valid returns true if the mode is a recognized value.
func (m Mode) Valid() bool {
	switch m {
	case ModeSwap, ModeVacancy:
		return true
	}
	return false
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}
