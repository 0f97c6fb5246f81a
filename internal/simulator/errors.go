package simulator

// Pointer operations reported in PointerIOError.Op.
const (
	OpGetPosition = "get position"
	OpSetPosition = "set position"
	OpResolution  = "read resolution"
)

// PointerIOError reports a failed pointer or display primitive. It is
// transient: the driver should retry on the next tick.
type PointerIOError struct {
	Op  string
	Err error
}

func (e *PointerIOError) Error() string {
	return "pointer " + e.Op + ": " + e.Err.Error()
}

func (e *PointerIOError) Unwrap() error { return e.Err }
