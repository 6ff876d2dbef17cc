package geometry

import (
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/tables"
)

func unigramPredicate(m metric.Metric, u Unigram) bool {
	hand := u.A.Hand
	finger := u.A.Finger
	switch m {
	case metric.Lt:
		return hand == tables.HandLeft && finger == tables.FingerThumb
	case metric.Li:
		return hand == tables.HandLeft && finger == tables.FingerIndex
	case metric.Lm:
		return hand == tables.HandLeft && finger == tables.FingerMiddle
	case metric.Lr:
		return hand == tables.HandLeft && finger == tables.FingerRing
	case metric.Lp:
		return hand == tables.HandLeft && finger == tables.FingerPinky
	case metric.Lh:
		return hand == tables.HandLeft
	case metric.Rt:
		return hand == tables.HandRight && finger == tables.FingerThumb
	case metric.Ri:
		return hand == tables.HandRight && finger == tables.FingerIndex
	case metric.Rm:
		return hand == tables.HandRight && finger == tables.FingerMiddle
	case metric.Rr:
		return hand == tables.HandRight && finger == tables.FingerRing
	case metric.Rp:
		return hand == tables.HandRight && finger == tables.FingerPinky
	case metric.Rh:
		return hand == tables.HandRight
	}
	return false
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func isMiddleOrRing(f tables.Finger) bool {
	return f == tables.FingerMiddle || f == tables.FingerRing
}

func bigramPredicate(m metric.Metric, bg Bigram) bool {
	a, b := bg.A, bg.B
	switch m {
	case metric.Sfb:
		return a.Hand == b.Hand && a.Finger == b.Finger
	case metric.Irb:
		return a.Hand == b.Hand &&
			a.Row == b.Row &&
			absDiff(a.Col, b.Col) == 1 &&
			isInwardStep(a.Finger, b.Finger)
	case metric.Orb:
		return a.Hand == b.Hand &&
			a.Row == b.Row &&
			absDiff(a.Col, b.Col) == 1 &&
			isOutwardStep(a.Finger, b.Finger)
	case metric.Lsb:
		return a.Hand == b.Hand &&
			absDiff(a.Col, b.Col) >= 2 &&
			((a.Finger == tables.FingerMiddle && b.Finger == tables.FingerIndex) ||
				(a.Finger == tables.FingerIndex && b.Finger == tables.FingerMiddle))
	case metric.Hsb:
		return a.Hand == b.Hand &&
			absDiff(a.Col, b.Col) >= 1 &&
			absDiff(a.Row, b.Row) == 1 &&
			scissorFinger(a, b)
	case metric.Fsb:
		return a.Hand == b.Hand &&
			absDiff(a.Col, b.Col) >= 1 &&
			absDiff(a.Row, b.Row) > 1 &&
			scissorFinger(a, b)
	}
	return false
}

// scissorFinger requires that a middle or ring finger presses the key
// closer to the bottom of the board. Rows increase downward.
func scissorFinger(a, b Cell) bool {
	return (isMiddleOrRing(a.Finger) && a.Row > b.Row) ||
		(isMiddleOrRing(b.Finger) && b.Row > a.Row)
}

func isInwardStep(a, b tables.Finger) bool {
	switch {
	case a == tables.FingerPinky && b == tables.FingerRing:
		return true
	case a == tables.FingerRing && b == tables.FingerMiddle:
		return true
	case a == tables.FingerMiddle && b == tables.FingerIndex:
		return true
	}
	return false
}

func isOutwardStep(a, b tables.Finger) bool {
	switch {
	case a == tables.FingerIndex && b == tables.FingerMiddle:
		return true
	case a == tables.FingerMiddle && b == tables.FingerRing:
		return true
	case a == tables.FingerRing && b == tables.FingerPinky:
		return true
	}
	return false
}

func trigramPredicate(m metric.Metric, tg Trigram) bool {
	a, b, c := tg.A, tg.B, tg.C
	switch m {
	case metric.Alt:
		return a.Hand == c.Hand && b.Hand != a.Hand
	case metric.One:
		return a.Hand == b.Hand && b.Hand == c.Hand &&
			distinctFingers(a, b, c) &&
			((a.Col < b.Col && b.Col < c.Col) || (a.Col > b.Col && b.Col > c.Col))
	case metric.Red:
		return a.Hand == b.Hand && b.Hand == c.Hand &&
			distinctFingers(a, b, c) &&
			((a.Col < b.Col && b.Col > c.Col) || (a.Col > b.Col && b.Col < c.Col))
	case metric.Rol:
		return (a.Hand == b.Hand && a.Hand != c.Hand && a.Finger != b.Finger) ||
			(b.Hand == c.Hand && b.Hand != a.Hand && b.Finger != c.Finger)
	}
	return false
}

func distinctFingers(a, b, c Cell) bool {
	return a.Finger != b.Finger && b.Finger != c.Finger && a.Finger != c.Finger
}
