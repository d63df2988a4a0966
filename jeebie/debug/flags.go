package debug

// Flags are the run-control switches of a session. They are independent:
// any combination is valid, and controllers may change them while paused.
type Flags struct {
	// StepByStep pauses before every instruction and after every step.
	StepByStep bool
	// LineByLine pauses after every scanline.
	LineByLine bool
	// ScreenByScreen pauses after every frame.
	ScreenByScreen bool
	// Log emits a trace record for every instruction.
	Log bool
	// BreakOnFlagged pauses on instructions whose emulation is approximated.
	BreakOnFlagged bool
}

// Paused reports whether any pause switch is on.
func (f Flags) Paused() bool {
	return f.StepByStep || f.LineByLine || f.ScreenByScreen || f.BreakOnFlagged
}

// ClearPauses turns every pause switch off, leaving logging as it is.
func (f *Flags) ClearPauses() {
	f.StepByStep = false
	f.LineByLine = false
	f.ScreenByScreen = false
	f.BreakOnFlagged = false
}

// Point identifies where in the frame loop a pause happens.
type Point int

const (
	// PointInstruction is the trace gate, before the instruction executes.
	PointInstruction Point = iota
	// PointStep follows a completed step.
	PointStep
	// PointLine follows a completed scanline.
	PointLine
	// PointFrame follows a completed frame.
	PointFrame
)

func (p Point) String() string {
	switch p {
	case PointInstruction:
		return "instruction"
	case PointStep:
		return "step"
	case PointLine:
		return "line"
	case PointFrame:
		return "frame"
	}
	return "unknown"
}

// Pause is handed to a controller when the session stops. Record is only
// set at the trace gate. Flags points at the live session flags.
type Pause struct {
	Point  Point
	Record *Record
	Flags  *Flags
}
