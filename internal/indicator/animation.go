package indicator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	animationFramesRequiredMessageConstant   = "animation requires at least one frame"
	animationIntervalInvalidMessageConstant  = "animation interval must be positive"
	animationValidationErrorTemplateConstant = "invalid animation %q: %w"
)

// ErrAnimationFramesRequired reports an animation definition without frames.
var ErrAnimationFramesRequired = errors.New(animationFramesRequiredMessageConstant)

// ErrAnimationIntervalInvalid reports an animation definition with a zero or negative interval.
var ErrAnimationIntervalInvalid = errors.New(animationIntervalInvalidMessageConstant)

// Animation describes an ordered sequence of glyph frames and the delay between them.
type Animation struct {
	Name     string
	Frames   []string
	Interval time.Duration
}

// NewAnimation validates the definition and returns an animation owning a private copy of the frames.
func NewAnimation(name string, frames []string, interval time.Duration) (Animation, error) {
	animation := Animation{
		Name:     strings.TrimSpace(name),
		Frames:   duplicateFrames(frames),
		Interval: interval,
	}
	if validationError := animation.Validate(); validationError != nil {
		return Animation{}, validationError
	}
	return animation, nil
}

// Validate reports whether the animation can drive an indicator.
func (animation Animation) Validate() error {
	if len(animation.Frames) == 0 {
		return fmt.Errorf(animationValidationErrorTemplateConstant, animation.Name, ErrAnimationFramesRequired)
	}
	if animation.Interval <= 0 {
		return fmt.Errorf(animationValidationErrorTemplateConstant, animation.Name, ErrAnimationIntervalInvalid)
	}
	return nil
}

// Frame returns the glyph displayed at the provided tick position.
func (animation Animation) Frame(position int) string {
	return animation.Frames[position%len(animation.Frames)]
}

// WithInterval returns a copy of the animation using the provided interval.
func (animation Animation) WithInterval(interval time.Duration) Animation {
	return Animation{
		Name:     animation.Name,
		Frames:   duplicateFrames(animation.Frames),
		Interval: interval,
	}
}

func duplicateFrames(frames []string) []string {
	if len(frames) == 0 {
		return nil
	}
	duplicated := make([]string, len(frames))
	copy(duplicated, frames)
	return duplicated
}
