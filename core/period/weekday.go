package period

import (
	"errors"
	"strconv"
	"time"
)

// Weekday is a day of the week ordered Sunday(0) … Saturday(6).
// Ordinals match time.Weekday so a clock reading converts directly.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var (
	ErrInvalidWeekday = errors.New("invalid weekday")

	weekdayNames = [...]string{
		"Sunday",
		"Monday",
		"Tuesday",
		"Wednesday",
		"Thursday",
		"Friday",
		"Saturday",
	}

	// Weekdays lists all days in canonical order.
	Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
)

// ParseWeekday matches s exactly (case-sensitive) against the English day names.
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if s == name {
			return Weekday(i), nil
		}
	}
	return 0, ErrInvalidWeekday
}

// WeekdayFromOrdinal converts a stored ordinal back into a Weekday.
func WeekdayFromOrdinal(n int) (Weekday, error) {
	d := Weekday(n)
	if !d.Valid() {
		return 0, ErrInvalidWeekday
	}
	return d, nil
}

// WeekdayOf returns the weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidWeekday
	}
	return []byte(weekdayNames[d]), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	day, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}
