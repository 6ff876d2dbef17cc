// Package tables loads the layout table and key table grids from their
// JSON envelope files.
package tables

import (
	"fmt"

	"github.com/verte-zerg/perky/internal/fault"
)

// Hand identifies the left or right hand.
type Hand int

const (
	HandLeft Hand = iota
	HandRight
)

func (h Hand) String() string {
	if h == HandRight {
		return "r"
	}
	return "l"
}

// Finger identifies a digit of a hand, thumb through pinky.
type Finger int

const (
	FingerThumb Finger = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
)

func (f Finger) String() string {
	switch f {
	case FingerThumb:
		return "t"
	case FingerIndex:
		return "i"
	case FingerMiddle:
		return "m"
	case FingerRing:
		return "r"
	case FingerPinky:
		return "p"
	}
	return "?"
}

// Digit is a hand/finger pair assigned to a layout cell.
type Digit struct {
	Hand   Hand
	Finger Finger
}

func (d Digit) String() string {
	return d.Hand.String() + d.Finger.String()
}

// ParseDigit parses a two-character digit code such as "lm" or "ri".
func ParseDigit(s string) (Digit, error) {
	if len(s) != 2 {
		return Digit{}, fault.New(fault.KindSchema,
			"invalid digit %q: expected two characters", s)
	}
	var d Digit
	switch s[0] {
	case 'l':
		d.Hand = HandLeft
	case 'r':
		d.Hand = HandRight
	default:
		return Digit{}, fault.New(fault.KindSchema,
			"invalid digit %q: unknown hand character %q", s, string(s[0]))
	}
	switch s[1] {
	case 't':
		d.Finger = FingerThumb
	case 'i':
		d.Finger = FingerIndex
	case 'm':
		d.Finger = FingerMiddle
	case 'r':
		d.Finger = FingerRing
	case 'p':
		d.Finger = FingerPinky
	default:
		return Digit{}, fault.New(fault.KindSchema,
			"invalid digit %q: unknown finger character %q", s, string(s[1]))
	}
	return d, nil
}

func cellError(r, c int, err error) error {
	return fault.Wrap(fault.KindSchema, fmt.Errorf("invalid cell (%d, %d): %w", r, c, err))
}
