// Package sched selects the next task to run. Grounded on
// original_source/tasks/src/lib.rs's TaskStateInformation.schedule_next,
// expanded per spec §4.6 with a blocked-skipping variant. Each scheduler is
// a pure function over a *task.Table: no I/O, no locking of its own (the
// caller, kernel/dispatch, already holds the table lock).
package sched

import "tickkernel/kernel/task"

// RoundRobin advances tbl.Next to (tbl.Current+1) mod N, ignoring the
// Blocked flag entirely. It reports whether the selection differs from the
// current task.
func RoundRobin(tbl *task.Table) bool {
	tbl.Next = (tbl.Current + 1) % task.N
	return tbl.Next != tbl.Current
}

// RoundRobinSkipBlocked behaves like RoundRobin but steps over any entry
// whose Blocked flag is set, tie-breaking toward the lowest index after the
// current one. If every other task is blocked, it falls back to the
// boot/idle task (index 0).
func RoundRobinSkipBlocked(tbl *task.Table) bool {
	for step := 1; step <= task.N; step++ {
		candidate := (tbl.Current + step) % task.N
		if candidate == tbl.Current {
			break
		}
		if !tbl.Entries[candidate].Blocked {
			tbl.Next = candidate
			return tbl.Next != tbl.Current
		}
	}

	tbl.Next = 0
	return tbl.Next != tbl.Current
}
