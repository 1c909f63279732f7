package proxy

import (
	"errors"
	"fmt"
)

// Mode is the kind of proxy behavior configured on the system.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// ErrInvalidMode is returned when a mode label is not one of none, manual or auto.
var ErrInvalidMode = errors.New("invalid proxy mode")

// ParseMode converts a persisted label into a Mode. Unknown labels are an
// error; there is no fallback mode.
func ParseMode(label string) (Mode, error) {
	switch Mode(label) {
	case ModeNone, ModeManual, ModeAuto:
		return Mode(label), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, label)
}

// Modes returns all modes in menu order.
func Modes() []Mode {
	return []Mode{ModeNone, ModeManual, ModeAuto}
}

func (m Mode) String() string { return string(m) }

func (m Mode) IsNone() bool   { return m == ModeNone }
func (m Mode) IsManual() bool { return m == ModeManual }
func (m Mode) IsAuto() bool   { return m == ModeAuto }
