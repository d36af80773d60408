package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Gesture and refresh constants.
const (
	// MoveThreshold is the number of pointer moves a gesture may contain
	// before it is treated as a seek.
	MoveThreshold = 4
	// TapTimeout is the longest press that still counts as a tap.
	TapTimeout = 300 * time.Millisecond
	// RefreshInterval is the playback position polling period.
	RefreshInterval = 20 * time.Millisecond
	// AnimationFPS drives the bar settle animation.
	AnimationFPS = 60
)

// ErrInvalidOptions is returned by Validate.
var ErrInvalidOptions = errors.New("invalid options")

// PeakMode selects how raw samples are folded into a bucket.
type PeakMode int

const (
	PeakAverage PeakMode = iota
	PeakMax
)

func (p PeakMode) String() string {
	switch p {
	case PeakMax:
		return "max"
	default:
		return "average"
	}
}

// ParsePeakMode accepts "avg", "average" or "max".
func ParsePeakMode(s string) (PeakMode, error) {
	switch s {
	case "avg", "average", "":
		return PeakAverage, nil
	case "max":
		return PeakMax, nil
	}
	return PeakAverage, fmt.Errorf("%w: unknown peak mode %q", ErrInvalidOptions, s)
}

// Variant selects the waveform layout.
type Variant int

const (
	// VariantFitted draws single-axis bars and smooths reported positions.
	VariantFitted Variant = iota
	// VariantFixed draws bars split around a horizontal axis.
	VariantFixed
)

// Next cycles between variants.
func (v Variant) Next() Variant {
	if v == VariantFitted {
		return VariantFixed
	}
	return VariantFitted
}

func (v Variant) String() string {
	if v == VariantFixed {
		return "fixed"
	}
	return "fitted"
}

// Options configures a waveform view and its player controller.
type Options struct {
	Variant  Variant
	PeakMode PeakMode

	BlockWidth       float64 // columns per bar
	TopBlockScale    float64
	BottomBlockScale float64

	BlockColorPlayed lipgloss.Color
	BlockColor       lipgloss.Color
	TextColor        lipgloss.Color
	TextBgColor      lipgloss.Color

	ShowTimeText            bool
	SnapToStartAtCompletion bool
	AnimateBars             bool
}

// Default returns the options used when nothing is overridden.
func Default() Options {
	return Options{
		Variant:                 VariantFitted,
		PeakMode:                PeakAverage,
		BlockWidth:              1,
		TopBlockScale:           1,
		BottomBlockScale:        0.5,
		BlockColorPlayed:        lipgloss.Color("#FF8C00"),
		BlockColor:              lipgloss.Color("#5C5C5C"),
		TextColor:               lipgloss.Color("#FFFFFF"),
		TextBgColor:             lipgloss.Color("#303030"),
		ShowTimeText:            true,
		SnapToStartAtCompletion: true,
		AnimateBars:             true,
	}
}

// Validate reports the first option that cannot be rendered.
// A zero block width is allowed; it simply yields no bars.
func (o Options) Validate() error {
	switch {
	case o.BlockWidth < 0:
		return fmt.Errorf("%w: block width %v", ErrInvalidOptions, o.BlockWidth)
	case o.TopBlockScale < 0:
		return fmt.Errorf("%w: top block scale %v", ErrInvalidOptions, o.TopBlockScale)
	case o.BottomBlockScale < 0:
		return fmt.Errorf("%w: bottom block scale %v", ErrInvalidOptions, o.BottomBlockScale)
	case o.PeakMode != PeakAverage && o.PeakMode != PeakMax:
		return fmt.Errorf("%w: peak mode %d", ErrInvalidOptions, o.PeakMode)
	case o.Variant != VariantFitted && o.Variant != VariantFixed:
		return fmt.Errorf("%w: variant %d", ErrInvalidOptions, o.Variant)
	}
	return nil
}
