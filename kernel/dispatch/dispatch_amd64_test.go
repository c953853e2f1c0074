package dispatch

import (
	"os"
	"testing"

	"tickkernel/kernel"
	"tickkernel/kernel/clock"
	"tickkernel/kernel/irq"
	"tickkernel/kernel/sched"
	"tickkernel/kernel/task"
)

func TestMain(m *testing.M) {
	eoiFn = func(uint8) {} // tests never touch real I/O ports
	os.Exit(m.Run())
}

func newThreeTaskTable() *task.Table {
	return task.NewTable([task.N]task.Entry{
		task.NewEntry("Task 0", 0x1000, task.StackDescriptor{Bottom: 0x1000, Top: 0x2000}),
		task.NewEntry("Task 1", 0x2000, task.StackDescriptor{Bottom: 0x2000, Top: 0x3000}),
		task.NewEntry("Task 2", 0x3000, task.StackDescriptor{Bottom: 0x3000, Top: 0x4000}),
	})
}

func withRoundRobin(t *testing.T) {
	t.Helper()
	orig := schedulerFn
	schedulerFn = sched.RoundRobin
	t.Cleanup(func() { schedulerFn = orig })
}

// TestFirstDispatchUsesSeededFrame covers spec §8 scenario 4's premise:
// before a task has ever run, the incoming frame/regs are not authoritative
// and the stored seed is restored instead.
func TestFirstDispatchUsesSeededFrame(t *testing.T) {
	withRoundRobin(t)
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	frame := &irq.Frame{StackPointer: 0xdead0000, CPUFlags: 0x200202}
	regs := &irq.Regs{RBP: 0xdead0000}

	Tick(tbl, clk, frame, regs)

	want := tbl.Entries[0].Frame
	if *frame != want {
		t.Fatalf("expected frame to be restored to task 0's seeded frame; got %+v want %+v", *frame, want)
	}
	if tbl.Current != 0 {
		t.Fatalf("expected current to remain 0 on a not-yet-started task; got %d", tbl.Current)
	}
}

// TestDispatchSwapSequence covers spec §8 scenario 4: three tasks seeded
// with distinct IPs/stacks, three consecutive ticks starting from current=0
// dispatch 1, 2, 0, each landing on the IP stored for that task.
func TestDispatchSwapSequence(t *testing.T) {
	withRoundRobin(t)
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	// Seed task 0 as already running, so the first tick is a genuine swap.
	frame := &irq.Frame{
		InstructionPointer: tbl.Entries[0].Frame.InstructionPointer,
		StackPointer:       uint64(tbl.Entries[0].Stack.Top - 8),
		CPUFlags:           0x200202,
	}
	regs := &irq.Regs{RBP: uint64(tbl.Entries[0].Stack.Top)}

	wantSeq := []int{1, 2, 0}
	for i, want := range wantSeq {
		Tick(tbl, clk, frame, regs)
		if tbl.Current != want {
			t.Fatalf("tick %d: expected current=%d; got %d", i, want, tbl.Current)
		}
		if frame.InstructionPointer != tbl.Entries[want].Frame.InstructionPointer {
			t.Fatalf("tick %d: expected dispatched IP to match task %d's seed", i, want)
		}
		// Simulate the dispatched task having run briefly on its own stack
		// before the next interrupt, so the following tick doesn't see it
		// as not-yet-started.
		frame.StackPointer -= 8
		regs.RBP = uint64(tbl.Entries[want].Stack.Top)
	}

	if ticks, _ := clk.Ticks(); ticks != 3 {
		t.Fatalf("expected 3 ticks recorded; got %d", ticks)
	}
}

// TestDispatchSwapIdempotence covers spec §8's idempotence invariant: when
// the scheduler reports no switch, the frame and regs are untouched.
func TestDispatchSwapIdempotence(t *testing.T) {
	orig := schedulerFn
	schedulerFn = func(tbl *task.Table) bool {
		tbl.Next = tbl.Current
		return false
	}
	t.Cleanup(func() { schedulerFn = orig })

	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	frame := &irq.Frame{
		InstructionPointer: 0x1234,
		StackPointer:       uint64(tbl.Entries[0].Stack.Top - 8),
		CPUFlags:           0x200202,
	}
	wantFrame := *frame
	regs := &irq.Regs{RBP: uint64(tbl.Entries[0].Stack.Top), RAX: 42}
	wantRegs := *regs

	Tick(tbl, clk, frame, regs)

	if *frame != wantFrame {
		t.Fatalf("expected frame unchanged on idempotent dispatch; got %+v want %+v", *frame, wantFrame)
	}
	if *regs != wantRegs {
		t.Fatalf("expected regs unchanged on idempotent dispatch; got %+v want %+v", *regs, wantRegs)
	}
}

// TestDispatchSetsIFOnSwitch covers spec §8 scenario 5.
func TestDispatchSetsIFOnSwitch(t *testing.T) {
	withRoundRobin(t)
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	frame := &irq.Frame{
		InstructionPointer: tbl.Entries[0].Frame.InstructionPointer,
		StackPointer:       uint64(tbl.Entries[0].Stack.Top - 8),
		CPUFlags:           0x200202,
	}
	regs := &irq.Regs{RBP: uint64(tbl.Entries[0].Stack.Top)}

	Tick(tbl, clk, frame, regs)

	if frame.CPUFlags&0x200 == 0 {
		t.Fatal("expected outgoing frame to have IF set")
	}
}

// TestDispatchDetectsStackOverflow covers spec §8 scenario 6: an incoming
// stack pointer outside the current task's range marks it blocked before
// the scheduler advances.
func TestDispatchDetectsStackOverflow(t *testing.T) {
	withRoundRobin(t)
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	frame := &irq.Frame{
		InstructionPointer: tbl.Entries[0].Frame.InstructionPointer,
		StackPointer:       0xfffff000, // well outside task 0's [0x1000,0x2000) stack
		CPUFlags:           0x200202,
	}
	// RBP inside the stack range establishes the task as already running,
	// so the SP violation below is evaluated as an overflow rather than a
	// not-yet-started first dispatch.
	regs := &irq.Regs{RBP: uint64(tbl.Entries[0].Stack.Top - 8)}

	Tick(tbl, clk, frame, regs)

	if !tbl.Entries[0].Blocked {
		t.Fatal("expected task 0 to be marked blocked after a stack-range violation")
	}
}

func TestDispatchPanicsOnLockContention(t *testing.T) {
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)
	if !tbl.Lock.TryToAcquire() {
		t.Fatal("expected to acquire a fresh lock")
	}
	defer tbl.Lock.Release()

	var gotErr *kernel.Error
	orig := panicFn
	panicFn = func(e interface{}) { gotErr = e.(*kernel.Error) }
	defer func() { panicFn = orig }()

	frame := &irq.Frame{CPUFlags: 0x200202}
	regs := &irq.Regs{}
	Tick(tbl, clk, frame, regs)

	if gotErr != errLockContention {
		t.Fatalf("expected lock-contention panic; got %v", gotErr)
	}
}

func TestDispatchPanicsWhenInterruptsWouldBeDisabled(t *testing.T) {
	withRoundRobin(t)
	tbl := newThreeTaskTable()
	clk := clock.New(0, 11932)

	var gotErr *kernel.Error
	orig := panicFn
	panicFn = func(e interface{}) { gotErr = e.(*kernel.Error) }
	defer func() { panicFn = orig }()

	frame := &irq.Frame{
		InstructionPointer: tbl.Entries[0].Frame.InstructionPointer,
		StackPointer:       uint64(tbl.Entries[0].Stack.Top - 8),
		CPUFlags:           0, // IF clear: this must be seen as fatal
	}
	regs := &irq.Regs{RBP: uint64(tbl.Entries[0].Stack.Top)}

	// Force the dispatched task's own seeded frame to also carry IF clear
	// so the post-switch invariant check is actually exercised.
	tbl.Entries[1].Frame.CPUFlags = 0

	Tick(tbl, clk, frame, regs)

	if gotErr != errInterruptsDisabled {
		t.Fatalf("expected interrupts-disabled panic; got %v", gotErr)
	}
}
