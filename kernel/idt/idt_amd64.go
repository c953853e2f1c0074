// Package idt owns the kernel's single Interrupt Descriptor Table: gate
// construction, installation, and loading into the CPU. The raw assembly
// entry trampolines that bridge a hardware interrupt into a registered Go
// handler are declared in handlers_amd64.go but, like the teacher's
// installIDT/dispatchInterrupt/interruptGateEntries, their bodies are
// generated tooling this repository does not carry (see DESIGN.md); every
// piece of logic that IS specified here — gate encoding, table management,
// handler lookup and the dispatcher body in kernel/dispatch — is complete.
// Gate encoding, table management and the dispatcher body are unit tested;
// handler lookup (vectorDispatch) is not.
package idt

import (
	"unsafe"

	"tickkernel/kernel"
	"tickkernel/kernel/cpu"
	"tickkernel/kernel/sync"
)

// GateType distinguishes the two amd64 interrupt-gate flavors used by this
// kernel: an interrupt gate clears IF on entry (restored by iretq); a trap
// gate leaves it set. See spec §3/§4.3.
type GateType uint8

const (
	// InterruptGate clears IF on entry. Used for the timer vector so the
	// dispatcher is never reentered mid-tick.
	InterruptGate GateType = 0xE
	// TrapGate leaves IF set on entry. Used for the keyboard ISR (which
	// relies on a try-lock rather than IF masking) and for every fatal
	// exception handler (reentry into a fatal handler is fatal anyway).
	TrapGate GateType = 0xF
)

// TimerVector and KeyboardVector are the two hardware-IRQ vectors this
// kernel installs handlers for, after the PIC remap (spec §6 vector map).
const (
	TimerVector    uint8 = 0x20
	KeyboardVector uint8 = 0x21
)

const kernelCodeSelector = 0x08

// gateDescriptor is the 16-byte amd64 IDT gate layout. This is contractual
// with the CPU (spec §3 "IDT entry"), not a design choice.
type gateDescriptor struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

func buildGate(handlerAddr uintptr, gt GateType) gateDescriptor {
	return gateDescriptor{
		offsetLow:  uint16(handlerAddr),
		selector:   kernelCodeSelector,
		typeAttr:   0x80 | uint8(gt), // present=1, DPL=00
		offsetMid:  uint16(handlerAddr >> 16),
		offsetHigh: uint32(handlerAddr >> 32),
	}
}

// present reports whether a gate has been installed at all (used by tests;
// any vector never passed to SetHandler stays the zero value, i.e.
// "gate = MISSING" per spec §6).
func (g gateDescriptor) present() bool {
	return g.typeAttr&0x80 != 0
}

// Table owns the 256-entry IDT behind a spinlock. There is exactly one
// instance for the lifetime of the kernel — spec's "Global context" owns
// the IDT the same way it owns the console, task table, and clock.
type Table struct {
	lock    sync.Spinlock
	entries [256]gateDescriptor
}

var kernelTable Table

var errTableLocked = &kernel.Error{Module: "idt", Message: "IDT locked by a concurrent installer"}

// New returns the kernel's single, statically-allocated IDT.
func New() *Table {
	return &kernelTable
}

// SetHandler installs a gate at index, pointing at handlerAddr, of the
// requested type. Installation only ever happens during the single-threaded
// boot sequence, but the non-blocking acquire matches the contract the
// dispatcher itself relies on elsewhere: contention is a bug, not a wait
// condition.
func (t *Table) SetHandler(index uint8, handlerAddr uintptr, gt GateType) *kernel.Error {
	if !t.lock.TryToAcquire() {
		return errTableLocked
	}
	defer t.lock.Release()

	t.entries[index] = buildGate(handlerAddr, gt)
	return nil
}

// idtrPointer is the 10-byte pseudo-descriptor LIDT expects: a 2-byte limit
// followed by an 8-byte linear base address.
type idtrPointer struct {
	limit uint16
	base  uint64
}

// Load installs this table into the CPU's IDTR.
func (t *Table) Load() {
	ptr := idtrPointer{
		limit: uint16(unsafe.Sizeof(t.entries)) - 1,
		base:  uint64(uintptr(unsafe.Pointer(&t.entries[0]))),
	}
	cpu.LoadIDT(uintptr(unsafe.Pointer(&ptr)))
}

// EnableInterrupts unmasks CPU interrupts. Exposed here, not only on
// kernel/cpu, because spec §4.3 describes it as part of the IDT module's
// own contract: interrupts should only be unmasked once every required
// gate has been installed.
func EnableInterrupts() {
	cpu.EnableInterrupts()
}
