// Package settings defines the user adjustable settings and their
// on-disk form.
package settings

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type Volume uint32

// MaxVolume is the loudest Volume.
const MaxVolume Volume = 100

func (v Volume) String() string {
	return fmt.Sprintf("%3d", uint32(v))
}

func (v Volume) Fraction() float32 {
	return float32(v) / float32(MaxVolume)
}

func VolumeFromFraction(f float32) Volume {
	return Volume(clamp01(f) * float32(MaxVolume))
}

type DisplayQuality uint8

const (
	Low DisplayQuality = iota
	Medium
	High
)

var qualityNames = []string{"Low", "Medium", "High"}

func (q DisplayQuality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("DisplayQuality(%d)", q)
}

func (q DisplayQuality) MarshalText() ([]byte, error) {
	if int(q) >= len(qualityNames) {
		return nil, fmt.Errorf("settings: invalid display quality %d", q)
	}
	return []byte(qualityNames[q]), nil
}

func (q *DisplayQuality) UnmarshalText(b []byte) error {
	i, err := lookup("display quality", qualityNames, string(b))
	if err != nil {
		return err
	}
	*q = DisplayQuality(i)
	return nil
}

// FramerateMode selects how frames are paced.
type FramerateMode uint8

const (
	// Auto paces frames to the display.
	Auto FramerateMode = iota
	// Manual paces frames to ManualFpsCap.
	Manual
	// Off disables pacing.
	Off
)

var framerateNames = []string{"Auto", "Manual", "Off"}

func (m FramerateMode) String() string {
	if int(m) < len(framerateNames) {
		return framerateNames[m]
	}
	return fmt.Sprintf("FramerateMode(%d)", m)
}

func (m FramerateMode) MarshalText() ([]byte, error) {
	if int(m) >= len(framerateNames) {
		return nil, fmt.Errorf("settings: invalid framerate mode %d", m)
	}
	return []byte(framerateNames[m]), nil
}

func (m *FramerateMode) UnmarshalText(b []byte) error {
	i, err := lookup("framerate mode", framerateNames, string(b))
	if err != nil {
		return err
	}
	*m = FramerateMode(i)
	return nil
}

type VsyncMode uint8

const (
	VsyncEnabled VsyncMode = iota
	VsyncDisabled
)

var vsyncNames = []string{"Enabled", "Disabled"}

func (m VsyncMode) String() string {
	if int(m) < len(vsyncNames) {
		return vsyncNames[m]
	}
	return fmt.Sprintf("VsyncMode(%d)", m)
}

func (m VsyncMode) MarshalText() ([]byte, error) {
	if int(m) >= len(vsyncNames) {
		return nil, fmt.Errorf("settings: invalid vsync mode %d", m)
	}
	return []byte(vsyncNames[m]), nil
}

func (m *VsyncMode) UnmarshalText(b []byte) error {
	i, err := lookup("vsync mode", vsyncNames, string(b))
	if err != nil {
		return err
	}
	*m = VsyncMode(i)
	return nil
}

// ManualFpsCap is the frame rate limit in Manual mode. Its slider
// covers 1 to 200 frames per second.
type ManualFpsCap float64

const (
	minFpsCap ManualFpsCap = 1
	fpsCapSpan             = 199
)

func (c ManualFpsCap) String() string {
	return fmt.Sprintf("%.0f FPS", float64(c))
}

func (c ManualFpsCap) Fraction() float32 {
	return float32((c - minFpsCap) / fpsCapSpan)
}

func FpsCapFromFraction(f float32) ManualFpsCap {
	return ManualFpsCap(fpsCapSpan*float64(clamp01(f))) + minFpsCap
}

// Slider is implemented by settings adjustable with a slider.
type Slider interface {
	Fraction() float32
}

type Settings struct {
	Volume    Volume
	Quality   DisplayQuality
	Framerate FramerateMode
	Vsync     VsyncMode
	FpsCap    ManualFpsCap
}

func Defaults() Settings {
	return Settings{
		Volume:    70,
		Quality:   Medium,
		Framerate: Auto,
		Vsync:     VsyncEnabled,
		FpsCap:    60,
	}
}

// Limiter describes the frame pacing in effect. Interval is zero unless
// Mode is Manual.
type Limiter struct {
	Mode     FramerateMode
	Interval time.Duration
}

func (s Settings) Limiter() Limiter {
	l := Limiter{Mode: s.Framerate}
	if s.Framerate == Manual {
		fps := math.Max(float64(s.FpsCap), 1e-6)
		l.Interval = time.Duration(float64(time.Second) / fps)
	}
	return l
}

// PresentMode names the swap chain present mode matching the vsync
// setting.
func (s Settings) PresentMode() string {
	if s.Vsync == VsyncDisabled {
		return "AutoNoVsync"
	}
	return "AutoVsync"
}

func lookup(kind string, names []string, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("settings: unknown %s %q", kind, s)
}

func clamp01(f float32) float32 {
	switch {
	case f != f, f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

var ErrUnknownFormat = errors.New("settings: unknown file format")
