package indicator

import "time"

// ScheduledTask is a pending one-shot callback.
type ScheduledTask interface {
	// Cancel prevents the callback from running if it has not fired yet.
	Cancel()
}

// Scheduler arms one-shot callbacks without blocking the caller.
type Scheduler interface {
	Schedule(delay time.Duration, callback func()) ScheduledTask
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// NewTimerScheduler constructs a scheduler backed by time.AfterFunc.
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

// Schedule runs callback on its own goroutine once delay elapses.
func (TimerScheduler) Schedule(delay time.Duration, callback func()) ScheduledTask {
	return timerTask{timer: time.AfterFunc(delay, callback)}
}

type timerTask struct {
	timer *time.Timer
}

func (task timerTask) Cancel() {
	task.timer.Stop()
}
