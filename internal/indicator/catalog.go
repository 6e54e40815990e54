package indicator

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAnimationName identifies the animation used when none is configured.
	DefaultAnimationName = "dots"

	animationNotFoundMessageConstant            = "animation not found"
	animationNotFoundErrorTemplateConstant      = "%w: %s"
	animationNameRequiredMessageConstant        = "animation name must be provided"
	animationsFilePathRequiredMessageConstant   = "animations file path must be provided"
	animationsFileReadErrorTemplateConstant     = "failed to read animations file: %w"
	animationsFileParseErrorTemplateConstant    = "failed to parse animations file: %w"
	animationsFileIntervalErrorTemplateConstant = "animation %q has invalid interval %q: %w"
)

// ErrAnimationNotFound reports a lookup for an unregistered animation name.
var ErrAnimationNotFound = errors.New(animationNotFoundMessageConstant)

var builtInAnimations = []Animation{
	{Name: "dots", Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}, Interval: 80 * time.Millisecond},
	{Name: "dots2", Frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}, Interval: 80 * time.Millisecond},
	{Name: "line", Frames: []string{"-", "\\", "|", "/"}, Interval: 130 * time.Millisecond},
	{Name: "pipe", Frames: []string{"┤", "┘", "┴", "└", "├", "┌", "┬", "┐"}, Interval: 100 * time.Millisecond},
	{Name: "simpleDots", Frames: []string{".  ", ".. ", "...", "   "}, Interval: 400 * time.Millisecond},
	{Name: "star", Frames: []string{"✶", "✸", "✹", "✺", "✹", "✷"}, Interval: 70 * time.Millisecond},
	{Name: "arc", Frames: []string{"◜", "◠", "◝", "◞", "◡", "◟"}, Interval: 100 * time.Millisecond},
	{Name: "circleHalves", Frames: []string{"◐", "◓", "◑", "◒"}, Interval: 50 * time.Millisecond},
	{Name: "arrow", Frames: []string{"←", "↖", "↑", "↗", "→", "↘", "↓", "↙"}, Interval: 100 * time.Millisecond},
}

// DefaultAnimation returns the built-in animation used when none is configured.
func DefaultAnimation() Animation {
	animation, _ := NewCatalog().Lookup(DefaultAnimationName)
	return animation
}

// Catalog indexes animations by name.
type Catalog struct {
	animations map[string]Animation
}

// NewCatalog constructs a catalog populated with the built-in animations.
func NewCatalog() *Catalog {
	catalog := &Catalog{animations: make(map[string]Animation, len(builtInAnimations))}
	for _, animation := range builtInAnimations {
		catalog.animations[animation.Name] = animation.WithInterval(animation.Interval)
	}
	return catalog
}

// Register adds or replaces an animation after validating it.
func (catalog *Catalog) Register(animation Animation) error {
	trimmedName := strings.TrimSpace(animation.Name)
	if len(trimmedName) == 0 {
		return errors.New(animationNameRequiredMessageConstant)
	}
	validated, validationError := NewAnimation(trimmedName, animation.Frames, animation.Interval)
	if validationError != nil {
		return validationError
	}
	catalog.animations[trimmedName] = validated
	return nil
}

// Lookup returns the animation registered under the provided name.
func (catalog *Catalog) Lookup(name string) (Animation, error) {
	animation, exists := catalog.animations[strings.TrimSpace(name)]
	if !exists {
		return Animation{}, fmt.Errorf(animationNotFoundErrorTemplateConstant, ErrAnimationNotFound, name)
	}
	return animation.WithInterval(animation.Interval), nil
}

// Names lists registered animation names in lexical order.
func (catalog *Catalog) Names() []string {
	names := make([]string, 0, len(catalog.animations))
	for name := range catalog.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type animationsFileDocument struct {
	Animations []animationFileEntry `yaml:"animations"`
}

type animationFileEntry struct {
	Name     string   `yaml:"name"`
	Interval string   `yaml:"interval"`
	Frames   []string `yaml:"frames"`
}

// LoadAnimationsFile reads animation definitions from a YAML document.
func LoadAnimationsFile(filePath string) ([]Animation, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(animationsFilePathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(animationsFileReadErrorTemplateConstant, readError)
	}

	var document animationsFileDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return nil, fmt.Errorf(animationsFileParseErrorTemplateConstant, unmarshalError)
	}

	animations := make([]Animation, 0, len(document.Animations))
	for _, entry := range document.Animations {
		interval, parseError := time.ParseDuration(strings.TrimSpace(entry.Interval))
		if parseError != nil {
			return nil, fmt.Errorf(animationsFileIntervalErrorTemplateConstant, entry.Name, entry.Interval, parseError)
		}
		if len(strings.TrimSpace(entry.Name)) == 0 {
			return nil, errors.New(animationNameRequiredMessageConstant)
		}
		animation, animationError := NewAnimation(entry.Name, entry.Frames, interval)
		if animationError != nil {
			return nil, animationError
		}
		animations = append(animations, animation)
	}

	return animations, nil
}
