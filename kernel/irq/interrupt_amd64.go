// Package irq defines the wire-format types that describe CPU-generated
// interrupts: the exception stack frame the CPU pushes on entry and the
// register-save area the ISR prologue builds below it. These layouts are
// contractual with the hardware, not a design choice.
package irq

import "tickkernel/kernel/kfmt"

// Regs is a snapshot of the 15 general-purpose registers an ISR prologue
// saves to the kernel stack, in the fixed order that is part of the ABI
// between the prologue/epilogue pair emitted by kernel/idt and the
// dispatcher that inspects this struct.
type Regs struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64
	RBP uint64
}

// Print outputs a dump of the register values via kfmt.
func (r *Regs) Print() {
	kfmt.Printf("RAX = %16x RBX = %16x\n", r.RAX, r.RBX)
	kfmt.Printf("RCX = %16x RDX = %16x\n", r.RCX, r.RDX)
	kfmt.Printf("RSI = %16x RDI = %16x\n", r.RSI, r.RDI)
	kfmt.Printf("R8  = %16x R9  = %16x\n", r.R8, r.R9)
	kfmt.Printf("R10 = %16x R11 = %16x\n", r.R10, r.R11)
	kfmt.Printf("R12 = %16x R13 = %16x\n", r.R12, r.R13)
	kfmt.Printf("R14 = %16x R15 = %16x\n", r.R14, r.R15)
	kfmt.Printf("RBP = %16x\n", r.RBP)
}

// Frame describes the five machine words the CPU pushes on interrupt entry
// when no privilege change occurs and the vector delivers no error code.
type Frame struct {
	InstructionPointer uint64
	CodeSegment        uint64
	CPUFlags           uint64
	StackPointer       uint64
	StackSegment       uint64
}

// Print outputs a dump of the exception frame via kfmt.
func (f *Frame) Print() {
	kfmt.Printf("RIP = %16x CS  = %16x\n", f.InstructionPointer, f.CodeSegment)
	kfmt.Printf("RSP = %16x SS  = %16x\n", f.StackPointer, f.StackSegment)
	kfmt.Printf("RFL = %16x\n", f.CPUFlags)
}

// FrameWithCode is the frame layout used by the vectors that deliver a
// hardware-pushed error code (8, 10-14, 17): identical to Frame but with
// ErrorCode prepended, matching the order the CPU pushes it in.
type FrameWithCode struct {
	ErrorCode uint64
	Frame
}

// Print outputs a dump of the exception frame, including the error code.
func (f *FrameWithCode) Print() {
	kfmt.Printf("ERR = %16x\n", f.ErrorCode)
	f.Frame.Print()
}
