// Package dispatch is the timer ISR body: the hard part. It decides
// whether the preempted task has actually begun running on its own stack,
// detects stack overflow, asks the scheduler for the next task, and
// substitutes the incoming exception frame and register-save area in
// place so the epilogue's iretq resumes the newly selected task. Grounded
// on original_source/src/main.rs's isr32 body (manage_tasks) and
// tasks::TaskStateInformation.mangle_esf_for_next, reimplemented per
// spec §4.5's exact step ordering.
package dispatch

import (
	"tickkernel/kernel"
	"tickkernel/kernel/clock"
	"tickkernel/kernel/cpu"
	"tickkernel/kernel/idt"
	"tickkernel/kernel/irq"
	"tickkernel/kernel/kfmt"
	"tickkernel/kernel/pic"
	"tickkernel/kernel/sched"
	"tickkernel/kernel/task"
)

// Trace enables the per-switch log line ("TS: old -> new"). Off by default:
// at the ~14.5kHz divisor from the testable-properties scenarios,
// unconditional logging would flood the console (see DESIGN.md).
var Trace = false

// TraceCycles enables TSC-based cycle counting around Tick's body, recorded
// into LastTickCycles. Off by default, keeping the two extra RDTSCs off the
// hot path; the original carried this instrumentation commented out.
var TraceCycles = false

// LastTickCycles records the TSC delta across the most recent Tick call,
// valid only when TraceCycles is enabled.
var LastTickCycles uint64

// schedulerFn selects the policy Tick delegates to. Overridden by tests and,
// at boot, selectable between sched.RoundRobin and sched.RoundRobinSkipBlocked.
var schedulerFn = sched.RoundRobinSkipBlocked

// SetScheduler overrides the scheduling policy used by Tick.
func SetScheduler(fn func(*task.Table) bool) {
	schedulerFn = fn
}

var errLockContention = &kernel.Error{Module: "dispatch", Message: "task table lock held during timer tick"}
var errInterruptsDisabled = &kernel.Error{Module: "dispatch", Message: "about to iretq with interrupts disabled"}

// panicFn is substituted in tests; kfmt.Panic never returns (it halts the
// CPU), so the two call sites below assume control does not fall through.
var panicFn = kfmt.Panic

// eoiFn is substituted in tests so they don't have to touch real I/O ports.
var eoiFn = pic.EOI

// Tick is invoked by the timer ISR trampoline with pointers to the
// CPU-pushed exception frame and the register-save area the prologue built.
// Both are mutated in place; whatever Tick leaves in them is what iretq and
// the epilogue's register restore will act on.
func Tick(tbl *task.Table, clk *clock.Pit, frame *irq.Frame, regs *irq.Regs) {
	var begin uint64
	if TraceCycles {
		begin = cpu.ReadTSC()
	}

	clk.Tick()

	if !tbl.Lock.TryToAcquire() {
		panicFn(errLockContention)
		return
	}
	defer tbl.Lock.Release()

	curr := tbl.CurrentEntry()
	sp := uintptr(frame.StackPointer)
	rbp := uintptr(regs.RBP)
	lastCurrent := tbl.Current

	switch {
	case !curr.Stack.Contains(sp) && !curr.Stack.Contains(rbp):
		// The preempted task never ran on its own stack yet (this is the
		// interrupt that occurs before the boot task meaningfully begins).
		// Its stored frame is authoritative; the incoming one is not.
		*frame = curr.Frame
		*regs = curr.Regs

	default:
		if !curr.Stack.Contains(sp) {
			kfmt.TryPrintf("stack overflow in task %s: stack=[%x,%x) sp=%x\n",
				curr.Name, curr.Stack.Bottom, curr.Stack.Top, sp)
			curr.Blocked = true
		}

		if schedulerFn(tbl) {
			curr.Frame.InstructionPointer = frame.InstructionPointer
			curr.Frame.StackPointer = frame.StackPointer
			curr.Frame.CPUFlags = frame.CPUFlags
			curr.Regs = *regs

			next := tbl.NextEntry()
			*frame = next.Frame
			*regs = next.Regs

			tbl.Current = tbl.Next

			if Trace {
				kfmt.TryPrintf("TS: %d -> %d\n", lastCurrent, tbl.Current)
			}
		}
	}

	if frame.CPUFlags&0x200 == 0 {
		panicFn(errInterruptsDisabled)
		return
	}

	eoiFn(idt.TimerVector)

	if TraceCycles {
		LastTickCycles = cpu.ReadTSC() - begin
	}
}
