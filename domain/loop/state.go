package loop

// State is the current stage of a tick.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateDetecting
	StateDeriving
	StateActing
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateDetecting:
		return "detecting"
	case StateDeriving:
		return "deriving"
	case StateActing:
		return "acting"
	case StateRendering:
		return "rendering"
	default:
		return "unknown"
	}
}

// StateListener is called on every transition, on the loop goroutine.
type StateListener func(prev, next State)
