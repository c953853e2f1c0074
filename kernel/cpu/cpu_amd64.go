// Package cpu provides the arch-specific primitives the rest of the kernel
// is built on: interrupt masking, halting, port I/O, and loading the IDT
// register. Each function below is declared without a body, exactly as the
// teacher declares EnableInterrupts/Halt/ReadCR2 — the implementation lives
// in cpu_amd64.s.
package cpu

// EnableInterrupts sets the CPU's IF flag, allowing maskable interrupts to
// be delivered.
func EnableInterrupts()

// DisableInterrupts clears the CPU's IF flag.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt.
func Halt()

// ReadCR2 returns the value stored in the CR2 register, which the CPU loads
// with the faulting linear address on a page fault.
func ReadCR2() uint64

// ReadTSC returns the current value of the time-stamp counter. Used by the
// optional per-tick cycle-counting diagnostic in kernel/dispatch.
func ReadTSC() uint64

// InB reads a single byte from the specified I/O port.
func InB(port uint16) uint8

// OutB writes a single byte to the specified I/O port.
func OutB(port uint16, val uint8)

// LoadIDT loads the CPU's IDTR register from the 10-byte pseudo-descriptor
// (2-byte limit, 8-byte base) at ptr.
func LoadIDT(ptr uintptr)
