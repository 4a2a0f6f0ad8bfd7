package sequencer

// State is a phase of a single run. Each run moves strictly forward through
// these states and ends in exactly StateRunning or StateAborted.
type State string

const (
	// StateIdle is the initial state before a run begins.
	StateIdle State = "Idle"
	// StateResolving covers configuration resolution and validation.
	StateResolving State = "Resolving"
	// StateProfileAndEnvResolved means profile and environment selection
	// completed and launch may proceed.
	StateProfileAndEnvResolved State = "ProfileAndEnvResolved"
	// StateRebuilding covers the optional image rebuild step.
	StateRebuilding State = "Rebuilding"
	// StatePlatformStarting covers the platform group launch.
	StatePlatformStarting State = "PlatformStarting"
	// StatePlatformHealthy means every platform health check reported healthy.
	StatePlatformHealthy State = "PlatformHealthy"
	// StateStackStarting covers the core stack launch.
	StateStackStarting State = "StackStarting"
	// StateRunning is the terminal success state.
	StateRunning State = "Running"
	// StateAborted is the terminal failure state. Startup failures leave the
	// partial topology in place for diagnosis.
	StateAborted State = "Aborted"
)

// transition advances the run state and records the step.
func (s *Sequencer) transition(next State) {
	s.state = next
	s.transitions = append(s.transitions, next)
	if s.logger != nil {
		s.logger.Debug("state transition", "state", next)
	}
}

// State returns the current run state.
func (s *Sequencer) State() State {
	return s.state
}

// Transitions returns the recorded state sequence of the last run.
func (s *Sequencer) Transitions() []State {
	return append([]State(nil), s.transitions...)
}
