// Package task owns the fixed-length task table: the per-task saved
// context and the current/next indices the dispatcher advances. Grounded on
// original_source/tasks/src/lib.rs's TaskEntry/TaskStateInformation, carried
// over into gopheros's idiom (irq.Frame/irq.Regs in place of
// interrupts::ExceptionStackFrame/TaskRegisters, kernel/sync.Spinlock in
// place of spin::Mutex).
package task

import (
	"tickkernel/kernel/irq"
	"tickkernel/kernel/sync"
)

// N is the fixed number of tasks this kernel schedules: a boot/idle task
// plus two workers (spec §3 "Task table", reference N=3).
const N = 3

const (
	kernelCodeSegment = 0x08
	kernelDataSegment = 0x10

	// InitialFlags seeds a new task's frame with IF set and the reserved
	// bit 1 always set, matching the source's 0x200202.
	InitialFlags = 0x200202
)

// StackDescriptor is the half-open address range [Bottom, Top) backing a
// task's stack. The stack grows down from Top, so Top is the value loaded
// into the stack pointer before a task has ever run.
type StackDescriptor struct {
	Bottom uintptr
	Top    uintptr
}

// Contains reports whether addr falls within this stack's range.
func (s StackDescriptor) Contains(addr uintptr) bool {
	return addr >= s.Bottom && addr < s.Top
}

// Entry is one task's complete saved context, plus its static identity and
// its stack bounds. Mutated only by the dispatcher, under the table's lock.
type Entry struct {
	Name    string
	Frame   irq.Frame
	Regs    irq.Regs
	Stack   StackDescriptor
	Blocked bool
}

// NewEntry seeds an Entry for a task whose entry point is entryFn, to run
// on the stack described by stack. The frame is built exactly as the
// source seeds it: IP = the task function's address, SP = the top of the
// stack, flags = InitialFlags, CS/SS = the kernel's flat selectors.
func NewEntry(name string, entryFn uintptr, stack StackDescriptor) Entry {
	return Entry{
		Name: name,
		Frame: irq.Frame{
			InstructionPointer: uint64(entryFn),
			CodeSegment:        kernelCodeSegment,
			CPUFlags:           InitialFlags,
			StackPointer:       uint64(stack.Top),
			StackSegment:       kernelDataSegment,
		},
		Stack: stack,
	}
}

// Table is the kernel's single, fixed-length task table: entries indexed by
// position, plus the current and next indices the scheduler and dispatcher
// read and write. current = next = 0 selects the boot task initially.
type Table struct {
	Lock    sync.Spinlock
	Entries [N]Entry
	Current int
	Next    int
}

// NewTable builds a task table from exactly N seeded entries.
func NewTable(entries [N]Entry) *Table {
	return &Table{Entries: entries}
}

// CurrentEntry returns a pointer to the presently scheduled task's entry.
func (t *Table) CurrentEntry() *Entry {
	return &t.Entries[t.Current]
}

// NextEntry returns a pointer to the task the scheduler has selected to run
// next (meaningful only after a scheduler call has run).
func (t *Table) NextEntry() *Entry {
	return &t.Entries[t.Next]
}
