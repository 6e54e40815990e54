package indicator

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

const (
	indicatorStartedMessageConstant      = "indicator started"
	indicatorLabelUpdatedMessageConstant = "indicator label updated"
	indicatorStoppedMessageConstant      = "indicator stopped"
	indicatorWriteFailedMessageConstant  = "indicator write failed"
	logFieldAnimationConstant            = "animation"
	logFieldLabelConstant                = "label"
	logFieldInteractiveConstant          = "interactive"
	logFieldFrameIndexConstant           = "frame_index"
	logFieldLabelUpdatesConstant         = "label_updates"
)

// Dependencies supplies the collaborators an indicator drives.
type Dependencies struct {
	Stream    OutputStream
	Scheduler Scheduler
	Logger    *zap.Logger
}

// Options tunes how an indicator renders.
type Options struct {
	// Animation selects the frames; nil uses DefaultAnimation.
	Animation *Animation
	// LabelSeparator is written between the glyph and a non-empty label.
	LabelSeparator string
	// ClearLine erases the rest of the line before each frame on interactive streams.
	ClearLine bool
	// ClearOnStop erases the indicator line when it stops on interactive streams.
	ClearOnStop bool
}

// Indicator renders a rotating glyph and label on a single line until stopped.
type Indicator struct {
	animation      Animation
	stream         OutputStream
	scheduler      Scheduler
	logger         *zap.Logger
	labelSeparator string
	clearLine      bool
	clearOnStop    bool

	mutex        sync.Mutex
	currentLabel string
	frameIndex   int
	pendingTask  ScheduledTask
	generation   uint64
	cursorHidden bool
	labelUpdates int
}

// New validates the animation and assembles an idle indicator.
func New(dependencies Dependencies, options Options) (*Indicator, error) {
	animation := DefaultAnimation()
	if options.Animation != nil {
		validated, validationError := NewAnimation(options.Animation.Name, options.Animation.Frames, options.Animation.Interval)
		if validationError != nil {
			return nil, validationError
		}
		animation = validated
	}

	stream := dependencies.Stream
	if stream == nil {
		stream = NewFileStream(os.Stderr)
	}

	scheduler := dependencies.Scheduler
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Indicator{
		animation:      animation,
		stream:         stream,
		scheduler:      scheduler,
		logger:         logger,
		labelSeparator: options.LabelSeparator,
		clearLine:      options.ClearLine,
		clearOnStop:    options.ClearOnStop,
	}, nil
}

// Animation returns the animation driving the indicator.
func (indicator *Indicator) Animation() Animation {
	return indicator.animation.WithInterval(indicator.animation.Interval)
}

// Start begins animating with label, or updates the label of a running indicator.
// Starting a running indicator with an unchanged label does nothing. Only the first label
// update of a run is logged; Stop reports the total.
func (indicator *Indicator) Start(label string) {
	indicator.mutex.Lock()
	defer indicator.mutex.Unlock()

	if indicator.pendingTask != nil {
		if label != indicator.currentLabel {
			indicator.currentLabel = label
			indicator.labelUpdates++
			if indicator.labelUpdates == 1 {
				indicator.logger.Debug(indicatorLabelUpdatedMessageConstant, zap.String(logFieldLabelConstant, label))
			}
		}
		return
	}

	indicator.currentLabel = label
	indicator.labelUpdates = 0
	indicator.generation++
	indicator.hideCursor()
	indicator.logger.Debug(
		indicatorStartedMessageConstant,
		zap.String(logFieldAnimationConstant, indicator.animation.Name),
		zap.String(logFieldLabelConstant, label),
		zap.Bool(logFieldInteractiveConstant, indicator.stream.Interactive()),
	)
	indicator.renderAndSchedule(indicator.generation)
}

// Stop halts the animation and restores the cursor. Stopping an idle indicator does nothing.
func (indicator *Indicator) Stop() {
	indicator.mutex.Lock()
	defer indicator.mutex.Unlock()

	if indicator.pendingTask == nil {
		return
	}

	indicator.pendingTask.Cancel()
	indicator.pendingTask = nil
	indicator.generation++

	if indicator.clearOnStop && indicator.stream.Interactive() {
		indicator.reportWriteError(indicator.stream.MoveToLineStart())
		indicator.write(ClearLineSequence)
	}
	indicator.showCursor()

	indicator.logger.Debug(
		indicatorStoppedMessageConstant,
		zap.Int(logFieldFrameIndexConstant, indicator.frameIndex),
		zap.Int(logFieldLabelUpdatesConstant, indicator.labelUpdates),
	)
	indicator.frameIndex = 0
}

// Running reports whether a tick is currently scheduled.
func (indicator *Indicator) Running() bool {
	indicator.mutex.Lock()
	defer indicator.mutex.Unlock()
	return indicator.pendingTask != nil
}

func (indicator *Indicator) tick(generation uint64) {
	indicator.mutex.Lock()
	defer indicator.mutex.Unlock()

	if indicator.pendingTask == nil || generation != indicator.generation {
		return
	}
	indicator.renderAndSchedule(generation)
}

// renderAndSchedule must be called with the mutex held.
func (indicator *Indicator) renderAndSchedule(generation uint64) {
	indicator.reportWriteError(indicator.stream.MoveToLineStart())
	if indicator.clearLine && indicator.stream.Interactive() {
		indicator.write(ClearLineSequence)
	}
	indicator.write(indicator.composeLine())
	indicator.frameIndex = (indicator.frameIndex + 1) % len(indicator.animation.Frames)

	indicator.pendingTask = indicator.scheduler.Schedule(indicator.animation.Interval, func() {
		indicator.tick(generation)
	})
}

func (indicator *Indicator) composeLine() string {
	frame := indicator.animation.Frame(indicator.frameIndex)
	if len(indicator.currentLabel) == 0 {
		return frame
	}
	return frame + indicator.labelSeparator + indicator.currentLabel
}

func (indicator *Indicator) hideCursor() {
	if !indicator.stream.Interactive() || indicator.cursorHidden {
		return
	}
	indicator.write(CursorHideSequence)
	indicator.cursorHidden = true
}

func (indicator *Indicator) showCursor() {
	if !indicator.stream.Interactive() || !indicator.cursorHidden {
		return
	}
	indicator.write(CursorShowSequence)
	indicator.cursorHidden = false
}

func (indicator *Indicator) write(text string) {
	_, writeError := io.WriteString(indicator.stream, text)
	indicator.reportWriteError(writeError)
}

func (indicator *Indicator) reportWriteError(writeError error) {
	if writeError == nil {
		return
	}
	indicator.logger.Debug(indicatorWriteFailedMessageConstant, zap.Error(writeError))
}
