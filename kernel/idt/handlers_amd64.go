package idt

import (
	"tickkernel/kernel"
	"tickkernel/kernel/irq"
)

// handlerEntry holds whichever single handler has been registered for a
// vector. At most one of the four fields is ever non-nil for a given entry.
type handlerEntry struct {
	excFn     irq.ExceptionHandler
	excCodeFn irq.ExceptionHandlerWithCode
	timerFn   func(*irq.Frame, *irq.Regs)
	kbdFn     func()
}

var handlers [256]handlerEntry

// trampolineAddr returns the address of the assembly entry stub for vector.
// Each stub saves the 15 general-purpose registers in the declared order
// (spec §3 "Saved register set") onto the kernel stack directly below the
// CPU-pushed frame, calls vectorDispatch, and — for every vector except the
// timer — restores the registers unchanged and executes iretq. The timer's
// stub restores whatever vectorDispatch left in the save area, since the
// dispatcher may have substituted a different task's context in place.
//
// Like the teacher's installIDT/dispatchInterrupt/interruptGateEntries,
// this function has no Go body: the generated stub table is tooling this
// retrieval does not carry (see DESIGN.md).
func trampolineAddr(vector uint8) uintptr

// vectorDispatch is invoked by the assembly trampoline for vector with
// pointers to the frame and the register-save area the trampoline's
// prologue built. hasCode and errCode are only meaningful for the vectors
// that push a hardware error code (8, 10-14, 17).
func vectorDispatch(vector uint8, hasCode bool, errCode uint64, frame *irq.Frame, regs *irq.Regs) {
	h := &handlers[vector]
	switch {
	case vector == TimerVector && h.timerFn != nil:
		h.timerFn(frame, regs)
	case vector == KeyboardVector && h.kbdFn != nil:
		h.kbdFn()
	case hasCode && h.excCodeFn != nil:
		h.excCodeFn(&irq.FrameWithCode{ErrorCode: errCode, Frame: *frame}, regs)
	case h.excFn != nil:
		h.excFn(frame, regs)
	}
}

// HandleException installs a fatal handler for exc, a vector that does not
// carry a hardware error code.
func (t *Table) HandleException(exc irq.ExceptionNum, handler irq.ExceptionHandler) *kernel.Error {
	v := uint8(exc)
	handlers[v].excFn = handler
	return t.SetHandler(v, trampolineAddr(v), TrapGate)
}

// HandleExceptionWithCode installs a fatal handler for exc, a vector that
// delivers a hardware error code ahead of the standard frame.
func (t *Table) HandleExceptionWithCode(exc irq.ExceptionNum, handler irq.ExceptionHandlerWithCode) *kernel.Error {
	v := uint8(exc)
	handlers[v].excCodeFn = handler
	return t.SetHandler(v, trampolineAddr(v), TrapGate)
}

// HandleTimer installs the dispatcher at the timer vector using an
// interrupt gate, so the dispatcher itself can never be reentered (spec
// §9: "use an interrupt gate ... to preserve this guarantee").
func (t *Table) HandleTimer(handler func(*irq.Frame, *irq.Regs)) *kernel.Error {
	handlers[TimerVector].timerFn = handler
	return t.SetHandler(TimerVector, trampolineAddr(TimerVector), InterruptGate)
}

// HandleKeyboard installs the keyboard ISR using a trap gate: console
// output from the ISR uses a try-lock, so leaving interrupts enabled during
// handling is acceptable (spec §4.7).
func (t *Table) HandleKeyboard(handler func()) *kernel.Error {
	handlers[KeyboardVector].kbdFn = handler
	return t.SetHandler(KeyboardVector, trampolineAddr(KeyboardVector), TrapGate)
}
