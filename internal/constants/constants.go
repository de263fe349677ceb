// Package constants provides named constants used throughout the schelling codebase.
// This centralizes the model's default parameters in one place.
package constants

// Board defaults
const (
	// DefaultGridSize is the interior dimension N of the square board.
	DefaultGridSize = 60

	// DefaultCountA is the number of TypeA agents placed on the board.
	DefaultCountA = 1400

	// DefaultCountB is the number of TypeB agents placed on the board.
	DefaultCountB = 1400
)

// Relocation defaults
const (
	// DefaultThreshold is the content score below which an agent is dissatisfied.
	// Range: 0.0 to 1.0
	DefaultThreshold = 0.6

	// DefaultRounds is the number of relocation rounds run by the driver.
	DefaultRounds = 20

	// IsolatedScore is the content score of an agent with no occupied neighbors.
	IsolatedScore = 1.0
)

// History defaults
const (
	// DefaultHistoryLimit is the number of runs listed when no limit is given.
	DefaultHistoryLimit = 20

	// DataDirName is the directory under $HOME holding config and history.
	DataDirName = ".schelling"
)
