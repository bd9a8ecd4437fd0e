package period

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eden/core"
)

// DefaultSessionLength is how long every period lasts unless configured otherwise.
const DefaultSessionLength = 90 * time.Minute

var ErrInvalidStatus = errors.New("invalid status")

// Status tells where a period stands relative to the current moment.
type Status int

const (
	StatusUnknown Status = iota
	StatusNotStarted
	StatusInProgress
	StatusOver
)

var statusNames = map[Status]string{
	StatusUnknown:    "Unknown",
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusOver:       "Over",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for st, name := range statusNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidStatus, "%q", text)
}

// ClassifiedPeriod is a Period enriched with its current Status.
type ClassifiedPeriod struct {
	Period
	Status Status `json:"status"`
}

// Classifier derives period statuses. The zero value uses DefaultSessionLength.
type Classifier struct {
	SessionLength time.Duration
}

func (c Classifier) sessionMinutes() int {
	if c.SessionLength <= 0 {
		return int(DefaultSessionLength / time.Minute)
	}
	return int(c.SessionLength / time.Minute)
}

// Status classifies a session held on day at start, as seen at now.
// A session is in progress from its start instant (inclusive) until start+SessionLength (exclusive).
func (c Classifier) Status(day Weekday, start TimeOfDay, now time.Time) Status {
	todayIdx := WeekdayOf(now)
	switch {
	case todayIdx < day:
		return StatusNotStarted
	case todayIdx > day:
		return StatusOver
	}

	nowMins := now.Hour()*60 + now.Minute()
	startMins := start.Minutes()
	switch {
	case nowMins < startMins:
		return StatusNotStarted
	case nowMins < startMins+c.sessionMinutes():
		return StatusInProgress
	default:
		return StatusOver
	}
}

// Classify attaches a Status to each of periods, which must all be held on day.
// now is read as is; convert it to the school location beforehand.
// A period whose stored time does not parse fails the whole call with a *core.IntegrityError.
func (c Classifier) Classify(periods []Period, day Weekday, now time.Time) ([]ClassifiedPeriod, error) {
	if !day.Valid() {
		return nil, ErrInvalidWeekday
	}
	res := make([]ClassifiedPeriod, 0, len(periods))
	for _, p := range periods {
		start, err := ParseTimeOfDay(p.Time)
		if err != nil {
			return nil, core.NewIntegrityError("period", p.ID, errors.Wrap(err, "parsing time"))
		}
		res = append(res, ClassifiedPeriod{Period: p, Status: c.Status(day, start, now)})
	}
	return res, nil
}
