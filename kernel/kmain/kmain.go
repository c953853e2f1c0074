// Package kmain wires every other package into the boot sequence: install
// the exception handlers, install the timer and keyboard ISRs, remap the
// PIC, and hand off to the task table. Grounded on original_source/src/main.rs's
// kmain() and the teacher's kernel/kmain/kmain.go (the "single exported
// Kmain, never expected to return" shape).
package kmain

import (
	"tickkernel/kernel"
	"tickkernel/kernel/clock"
	"tickkernel/kernel/cpu"
	"tickkernel/kernel/dispatch"
	"tickkernel/kernel/hal"
	"tickkernel/kernel/idt"
	"tickkernel/kernel/irq"
	"tickkernel/kernel/keyboard"
	"tickkernel/kernel/kfmt"
	"tickkernel/kernel/pic"
	"tickkernel/kernel/task"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// pitDivisor selects a ~14.5kHz tick rate (1_193_182 / 82), the same
// divisor scenario 2 of spec §8 exercises.
const pitDivisor = 82

// stackSize is the fixed per-task stack (spec §5 "Stack policy" reference
// size), backed by plain Go arrays rather than a physical memory range:
// this kernel carries no VMM, so there is no notion of "physical" versus
// "virtual" here, only the addresses the Go linker places .bss at.
const stackSize = 8192

var (
	bootStack    [stackSize]byte
	worker1Stack [stackSize]byte
	worker2Stack [stackSize]byte

	clk     *clock.Pit
	idtable *idt.Table
	tbl     *task.Table
)

func stackOf(mem *[stackSize]byte) task.StackDescriptor {
	bottom := uintptrOf(mem)
	return task.StackDescriptor{Bottom: bottom, Top: bottom + stackSize}
}

// Kmain is the kernel's single entry point. It is not expected to return;
// if it somehow does, kfmt.Panic below halts the CPU.
//
//go:noinline
func Kmain() {
	cpu.DisableInterrupts()

	hal.DetectHardware()
	kfmt.Printf("tickkernel booting\n")

	idtable = idt.New()
	installExceptionHandlers(idtable)

	clk = clock.New(0, pitDivisor)
	tbl = task.NewTable([task.N]task.Entry{
		task.NewEntry("Task 0", funcAddr(bootTask), stackOf(&bootStack)),
		task.NewEntry("Task 1", funcAddr(worker1Task), stackOf(&worker1Stack)),
		task.NewEntry("Task 2", funcAddr(worker2Task), stackOf(&worker2Stack)),
	})

	if err := idtable.HandleTimer(func(frame *irq.Frame, regs *irq.Regs) {
		dispatch.Tick(tbl, clk, frame, regs)
	}); err != nil {
		kfmt.Panic(err)
	}

	if err := idtable.HandleKeyboard(keyboardISR); err != nil {
		kfmt.Panic(err)
	}

	pic.Remap()
	idtable.Load()

	kfmt.Printf("IDT loaded, PIC remapped, %d tasks seeded; entering task 0\n", task.N)

	current := tbl.CurrentEntry()
	idt.Enter(&current.Frame, &current.Regs)

	kfmt.Panic(errKmainReturned)
}

// keyboardISR reads the scancode the PS/2 controller left at port 0x60,
// decodes it, and prints it via the console's non-blocking path (spec
// §4.7). Unmapped and break codes are silently ignored. c is passed as a
// single-byte slice rather than converted to a string, since a byte-to-
// string conversion allocates and this path runs with interrupts enabled
// before any allocator exists.
func keyboardISR() {
	scancode := cpu.InB(0x60)
	if c, ok := keyboard.FromScancode(scancode); ok {
		buf := [1]byte{c}
		kfmt.TryPrintf("%s", buf[:])
	}
	pic.EOI(idt.KeyboardVector)
}

// bootTask is task 0: it starts the clock and enables interrupts only once
// every handler is installed and the table it will be preempted against is
// fully seeded, then waits for the timer to preempt it (spec §4.8).
func bootTask() {
	clk.Start()
	kfmt.Printf("clock started: frequency=%d resolution=%dns\n", clk.Frequency(), clk.Resolution())
	idt.EnableInterrupts()

	for {
		cpu.Halt()
	}
}
