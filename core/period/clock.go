package period

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTime = errors.New("invalid time")

	clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "H:MM" or "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, errors.Wrapf(ErrInvalidTime, "%q", s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: h, Minute: mm}, nil
}

// Minutes returns minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NormalizeTime rewrites a valid "H:MM" into "HH:MM".
func NormalizeTime(s string) (string, error) {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}
