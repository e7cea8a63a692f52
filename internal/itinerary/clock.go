package itinerary

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Clock is a time of day in minutes since midnight. On a day timeline it may
// run past 24:00; String formats it modulo 24h.
type Clock int

// ParseClock parses a 24h "HH:MM" string. ok is false for empty or malformed input.
func ParseClock(s string) (c Clock, ok bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return Clock(h*60 + m), true
}

// String formats c as "HH:MM", wrapping at midnight.
func (c Clock) String() string {
	m := int(c) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Hour returns the wall-clock hour of c.
func (c Clock) Hour() int {
	m := int(c) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m / 60
}

// Add returns c shifted by minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// ValidClock reports whether s is a well-formed "HH:MM" string.
func ValidClock(s string) bool {
	_, ok := ParseClock(s)
	return ok
}

// normalizeClock returns s in canonical "HH:MM" form, or "" when malformed.
func normalizeClock(s string) string {
	c, ok := ParseClock(s)
	if !ok {
		return ""
	}
	return c.String()
}

// midnightSlack is the widest gap after midnight that still reads a start as
// the next day when the previous stop ended before midnight. It is the
// largest travel buffer, so a propagated day always reads back in order.
const midnightSlack = 60

// followingStart places the stored start c of a stop that comes after ref
// (the previous stop's end, or where the chain would put it) on the day
// timeline.
//
// Once ref is past midnight, c is read on the day nearest to ref. Before
// midnight c stays on the same day, so an evening stop followed by a morning
// one overlaps, unless reading c as the next day leaves a gap of at most
// midnightSlack.
func followingStart(c, ref Clock) Clock {
	if ref >= minutesPerDay {
		for c < ref-minutesPerDay/2 {
			c += minutesPerDay
		}
		return c
	}
	if c < ref && c+minutesPerDay-ref <= midnightSlack {
		return c + minutesPerDay
	}
	return c
}

// dayStartClock parses s, falling back to 09:00.
func dayStartClock(s string) Clock {
	if c, ok := ParseClock(s); ok {
		return c
	}
	return 9 * 60
}
