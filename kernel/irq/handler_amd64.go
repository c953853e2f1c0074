package irq

// ExceptionNum identifies an architectural CPU exception vector. The kernel
// installs a fatal handler for the 16 vectors in {0-8, 10-14, 17, 18}.
// Vectors 9 and 15 are reserved by the architecture and left blank here;
// vector 16 (x87 floating-point) is declared but gets no handler.
type ExceptionNum uint8

const (
	DivideByZero ExceptionNum = iota
	Debug
	NMI
	Breakpoint
	Overflow
	BoundRangeExceeded
	InvalidOpcode
	DeviceNotAvailable
	DoubleFault
	_ // 9: coprocessor segment overrun, reserved since the 387
	InvalidTSS
	SegmentNotPresent
	StackSegmentFault
	GPFException
	PageFaultException
	_ // 15: reserved
	X87FPException
	AlignmentCheck
	MachineCheck
)

// ExceptionHandler is a fatal handler for a vector that carries no hardware
// error code.
type ExceptionHandler func(frame *Frame, regs *Regs)

// ExceptionHandlerWithCode is a fatal handler for a vector that delivers a
// hardware-pushed error code ahead of the frame (8, 10-14, 17).
type ExceptionHandlerWithCode func(frame *FrameWithCode, regs *Regs)
