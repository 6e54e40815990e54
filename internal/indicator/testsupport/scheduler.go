// Package testsupport provides deterministic collaborators for exercising indicators in tests.
package testsupport

import (
	"sort"
	"sync"
	"time"

	"github.com/temirov/spinline/internal/indicator"
)

// ManualScheduler is a fake clock that only fires callbacks when advanced.
type ManualScheduler struct {
	mutex          sync.Mutex
	now            time.Duration
	nextSequence   int
	pending        []*manualTask
	scheduledCount int
}

type manualTask struct {
	scheduler *ManualScheduler
	dueAt     time.Duration
	sequence  int
	callback  func()
}

// NewManualScheduler constructs a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule records callback to run once the clock reaches now+delay.
func (scheduler *ManualScheduler) Schedule(delay time.Duration, callback func()) indicator.ScheduledTask {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()

	task := &manualTask{
		scheduler: scheduler,
		dueAt:     scheduler.now + delay,
		sequence:  scheduler.nextSequence,
		callback:  callback,
	}
	scheduler.nextSequence++
	scheduler.scheduledCount++
	scheduler.pending = append(scheduler.pending, task)
	return task
}

// Cancel removes the task from the pending set.
func (task *manualTask) Cancel() {
	task.scheduler.mutex.Lock()
	defer task.scheduler.mutex.Unlock()

	task.scheduler.removeLocked(task)
}

// Advance moves the clock forward, firing due callbacks in order of due time.
// Callbacks run without the scheduler lock so they may schedule again.
func (scheduler *ManualScheduler) Advance(duration time.Duration) {
	scheduler.mutex.Lock()
	target := scheduler.now + duration
	scheduler.mutex.Unlock()

	for {
		scheduler.mutex.Lock()
		task := scheduler.nextDueLocked(target)
		if task == nil {
			scheduler.now = target
			scheduler.mutex.Unlock()
			return
		}
		scheduler.removeLocked(task)
		scheduler.now = task.dueAt
		scheduler.mutex.Unlock()

		task.callback()
	}
}

// PendingCount reports how many callbacks are armed and not cancelled.
func (scheduler *ManualScheduler) PendingCount() int {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()
	return len(scheduler.pending)
}

// ScheduledCount reports how many callbacks were ever scheduled.
func (scheduler *ManualScheduler) ScheduledCount() int {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()
	return scheduler.scheduledCount
}

// Now reports the current fake time.
func (scheduler *ManualScheduler) Now() time.Duration {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()
	return scheduler.now
}

func (scheduler *ManualScheduler) nextDueLocked(target time.Duration) *manualTask {
	sort.SliceStable(scheduler.pending, func(leftIndex int, rightIndex int) bool {
		left := scheduler.pending[leftIndex]
		right := scheduler.pending[rightIndex]
		if left.dueAt == right.dueAt {
			return left.sequence < right.sequence
		}
		return left.dueAt < right.dueAt
	})
	if len(scheduler.pending) == 0 || scheduler.pending[0].dueAt > target {
		return nil
	}
	return scheduler.pending[0]
}

func (scheduler *ManualScheduler) removeLocked(task *manualTask) {
	for taskIndex, candidate := range scheduler.pending {
		if candidate == task {
			scheduler.pending = append(scheduler.pending[:taskIndex], scheduler.pending[taskIndex+1:]...)
			return
		}
	}
}
