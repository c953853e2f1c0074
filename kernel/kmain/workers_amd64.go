package kmain

import "tickkernel/kernel/kfmt"

// worker1Task and worker2Task are busy-loop placeholders exercising the
// scheduler (grounded on original_source/src/main.rs's task1/task2): each
// walks an interleaved even/odd arithmetic sequence forever, checking its
// own invariant on every step, never blocking, never returning. Neither
// yields voluntarily — this kernel has no such primitive (spec Non-goals)
// — so the only way either stops running is preemption by the timer.
func worker1Task() {
	var i, prev uint64 = 2, 0
	for {
		if i != prev+2 || i%2 != 0 {
			kfmt.Panic("worker 1: arithmetic invariant violated")
		}
		prev = i
		i += 2
	}
}

func worker2Task() {
	var i, prev uint64 = 3, 1
	for {
		if i != prev+2 || i%2 != 1 {
			kfmt.Panic("worker 2: arithmetic invariant violated")
		}
		prev = i
		i += 2
	}
}
