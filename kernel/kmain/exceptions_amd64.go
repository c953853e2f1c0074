package kmain

import (
	"tickkernel/kernel"
	"tickkernel/kernel/cpu"
	"tickkernel/kernel/idt"
	"tickkernel/kernel/irq"
	"tickkernel/kernel/kfmt"
)

// noCodeExceptions are the vectors that do not carry a hardware error code
// (spec §4.4/§6). Order matches irq.ExceptionNum's declaration.
var noCodeExceptions = []struct {
	num  irq.ExceptionNum
	name string
}{
	{irq.DivideByZero, "Divide-by-Zero Error"},
	{irq.Debug, "Debug"},
	{irq.NMI, "Non-Maskable Interrupt"},
	{irq.Breakpoint, "Breakpoint"},
	{irq.Overflow, "Overflow"},
	{irq.BoundRangeExceeded, "Bound-Range Exceeded"},
	{irq.InvalidOpcode, "Invalid Opcode"},
	{irq.DeviceNotAvailable, "Device Not Available"},
	{irq.MachineCheck, "Machine-Check"},
}

// codedExceptions are the vectors that deliver a hardware error code ahead
// of the frame.
var codedExceptions = []struct {
	num  irq.ExceptionNum
	name string
}{
	{irq.DoubleFault, "Double Fault"},
	{irq.InvalidTSS, "Invalid TSS"},
	{irq.SegmentNotPresent, "Segment Not Present"},
	{irq.StackSegmentFault, "Stack-Segment Fault"},
	{irq.GPFException, "General-Protection Fault"},
	{irq.PageFaultException, "Page Fault"},
	{irq.AlignmentCheck, "Alignment Check"},
}

// installExceptionHandlers registers a fatal handler for every vector in
// {0-8, 10-14, 17, 18} (spec §4.4), each printing the frame and halting.
// Page Fault additionally reports CR2, the only vector that needs it.
func installExceptionHandlers(t *idt.Table) {
	for _, e := range noCodeExceptions {
		name := e.name
		if err := t.HandleException(e.num, func(frame *irq.Frame, regs *irq.Regs) {
			fatal(name, frame, regs, nil)
		}); err != nil {
			kfmt.Panic(err)
		}
	}

	for _, e := range codedExceptions {
		name, num := e.name, e.num
		if err := t.HandleExceptionWithCode(num, func(frame *irq.FrameWithCode, regs *irq.Regs) {
			errCode := frame.ErrorCode
			fatal(name, &frame.Frame, regs, &errCode)
		}); err != nil {
			kfmt.Panic(err)
		}
	}
}

var errException = &kernel.Error{Module: "kmain", Message: "unhandled CPU exception"}

// fatal prints the exception name, the frame, the saved registers, and (for
// Page Fault) CR2, then halts via kfmt.Panic. No CPU exception recovers
// (spec §7, error kind 1).
func fatal(name string, frame *irq.Frame, regs *irq.Regs, errCode *uint64) {
	kfmt.Printf("\n*** %s exception ***\n", name)
	if errCode != nil {
		kfmt.Printf("error code = %x\n", *errCode)
	}
	if name == "Page Fault" {
		kfmt.Printf("CR2 = %x\n", cpu.ReadCR2())
	}
	frame.Print()
	regs.Print()

	errException.Message = name
	kfmt.Panic(errException)
}
