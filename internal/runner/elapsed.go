package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/temirov/spinline/internal/ui"
)

const elapsedLabelTemplateConstant = "%s (%s)"

// TickerFactory creates a ticker channel and the function that stops it.
type TickerFactory func(interval time.Duration) (<-chan time.Time, func())

func newRuntimeTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// elapsedLabelIndicator appends the time since Start to the label of the wrapped indicator.
type elapsedLabelIndicator struct {
	statusIndicator ui.StatusIndicator
	refreshInterval time.Duration
	now             func() time.Time
	newTicker       TickerFactory

	mutex       sync.Mutex
	stopRefresh chan struct{}
	refreshDone chan struct{}

	labelMutex sync.Mutex
	baseLabel  string
}

func newElapsedLabelIndicator(statusIndicator ui.StatusIndicator, refreshInterval time.Duration, now func() time.Time, newTicker TickerFactory) *elapsedLabelIndicator {
	if now == nil {
		now = time.Now
	}
	if newTicker == nil {
		newTicker = newRuntimeTicker
	}
	return &elapsedLabelIndicator{
		statusIndicator: statusIndicator,
		refreshInterval: refreshInterval,
		now:             now,
		newTicker:       newTicker,
	}
}

func (elapsed *elapsedLabelIndicator) Start(label string) {
	elapsed.mutex.Lock()
	defer elapsed.mutex.Unlock()

	elapsed.labelMutex.Lock()
	elapsed.baseLabel = label
	elapsed.statusIndicator.Start(label)
	elapsed.labelMutex.Unlock()

	if elapsed.stopRefresh != nil {
		return
	}

	elapsed.stopRefresh = make(chan struct{})
	elapsed.refreshDone = make(chan struct{})
	go elapsed.refresh(elapsed.now(), elapsed.stopRefresh, elapsed.refreshDone)
}

// Stop waits for the refresh loop to exit before stopping the indicator so no late label update restarts it.
func (elapsed *elapsedLabelIndicator) Stop() {
	elapsed.mutex.Lock()
	defer elapsed.mutex.Unlock()

	if elapsed.stopRefresh != nil {
		close(elapsed.stopRefresh)
		<-elapsed.refreshDone
		elapsed.stopRefresh = nil
		elapsed.refreshDone = nil
	}
	elapsed.statusIndicator.Stop()
}

func (elapsed *elapsedLabelIndicator) refresh(startedAt time.Time, stopRefresh <-chan struct{}, refreshDone chan<- struct{}) {
	defer close(refreshDone)

	tickerChannel, stopTicker := elapsed.newTicker(elapsed.refreshInterval)
	defer stopTicker()

	for {
		select {
		case <-stopRefresh:
			return
		case <-tickerChannel:
			elapsed.relabel(elapsed.now().Sub(startedAt).Truncate(time.Second))
		}
	}
}

// relabel renders the most recent base label with elapsedTime appended.
func (elapsed *elapsedLabelIndicator) relabel(elapsedTime time.Duration) {
	elapsed.labelMutex.Lock()
	defer elapsed.labelMutex.Unlock()
	elapsed.statusIndicator.Start(fmt.Sprintf(elapsedLabelTemplateConstant, elapsed.baseLabel, elapsedTime))
}
