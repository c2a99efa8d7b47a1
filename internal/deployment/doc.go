// Package deployment runs long, blocking units of work while a reporter
// narrates their progress from a monitor goroutine.
//
// The monitor and the worker synchronize on a two-party barrier before the
// work starts and on a single-slot completion channel when it ends, so the
// reporter state is never touched by two goroutines at once.
package deployment
