package idt

import "tickkernel/kernel/irq"

// Enter activates a task by restoring regs into the general-purpose
// registers exactly as the epilogue of every ISR trampoline does, then
// executing iretq against frame. This is the kernel's only non-interrupt-
// driven task activation path.
//
// Using it unifies "jump into a task for the first time" with "resume a
// preempted task" (spec §9's design note on interrupt-return-as-task-start):
// both become a restore-and-iretq over a task's stored Frame/Regs, the only
// difference being who built the Frame — the bootstrap, once, at seed time,
// versus the dispatcher, every tick. task.NewEntry already seeds a Frame and
// a zeroed Regs for exactly this reason, so the first timer tick a task
// receives finds it "not yet started" (its stack.Contains check fails on
// both the seeded SP and the zeroed RBP) and the dispatcher's own first-
// dispatch branch takes over from here on.
//
// Never returns; implemented in enter_amd64.s.
func Enter(frame *irq.Frame, regs *irq.Regs)
