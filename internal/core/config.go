package core

// RuntimeConfig is what the platform tells a game about its surroundings.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means time-based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the summary the platform needs after each tick.
type GameState struct {
	Score    int  // Total score of the run
	Level    int  // Current level
	Moves    int  // Moves left on this level
	GameOver bool // The run has ended
	Busy     bool // A cascade or transition is playing
}

// StepResult is returned by a game after each simulation tick.
type StepResult struct {
	State GameState
}
