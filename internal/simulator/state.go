package simulator

// State is the simulator's position in its tick state machine.
type State int

const (
	StateStarting State = iota
	StateOutOfWindow
	StateWaitingIdleThreshold
	// StateUserActive is StateWaitingIdleThreshold entered because real
	// pointer movement was just observed.
	StateUserActive
	StateActivelyJiggling
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateOutOfWindow:
		return "OutOfWindow"
	case StateWaitingIdleThreshold:
		return "WaitingIdleThreshold"
	case StateUserActive:
		return "UserActive"
	case StateActivelyJiggling:
		return "ActivelyJiggling"
	default:
		return "Unknown"
	}
}

// Outcome tells the driver which delay applies after a tick.
type Outcome int

const (
	NoMovement Outcome = iota
	Moved
)

func (o Outcome) String() string {
	if o == Moved {
		return "moved"
	}
	return "no movement"
}
