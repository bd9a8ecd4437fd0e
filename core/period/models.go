package period

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/subject"
)

// Orderable fields; anything else is ignored.
var orderingFields = map[string]bool{
	"day":        true,
	"time":       true,
	"created_at": true,
	"updated_at": true,
}

type Period struct {
	ID        string          `json:"id"`
	Day       Weekday         `json:"day"`
	Time      string          `json:"time"` // HH:MM
	Subject   subject.Summary `json:"subject"`
	CreatedAt time.Time       `json:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at"` // UTC
}

// NewPeriod contains information needed to create a new Period.
type NewPeriod struct {
	Day     string `json:"day" validate:"required,weekday"`
	Time    string `json:"time" validate:"required,clock"`
	Subject string `json:"subject" validate:"required,uuid"`
}

func (np *NewPeriod) Validate(validate *validator.Validate) error {
	np.Day = core.CleanString(np.Day)
	np.Time = core.CleanString(np.Time)
	np.Subject = core.CleanString(np.Subject, true /* lower */)
	return validate.Struct(np)
}

// UpdatePeriod replaces every editable field of a Period.
type UpdatePeriod NewPeriod

func (up *UpdatePeriod) Validate(validate *validator.Validate) error {
	return (*NewPeriod)(up).Validate(validate)
}

type ChangeDay struct {
	Day string `json:"day" validate:"required,weekday"`
}

func (cd *ChangeDay) Validate(validate *validator.Validate) error {
	cd.Day = core.CleanString(cd.Day)
	return validate.Struct(cd)
}

type ChangeTime struct {
	Time string `json:"time" validate:"required,clock"`
}

func (ct *ChangeTime) Validate(validate *validator.Validate) error {
	ct.Time = core.CleanString(ct.Time)
	return validate.Struct(ct)
}

type ChangeSubject struct {
	Subject string `json:"subject" validate:"required,uuid"`
}

func (cs *ChangeSubject) Validate(validate *validator.Validate) error {
	cs.Subject = core.CleanString(cs.Subject, true /* lower */)
	return validate.Struct(cs)
}

// TodayQuery is the input of the today query; Today must be an exact English day name.
type TodayQuery struct {
	Today string `query:"today" validate:"required,weekday"`
}

func (tq *TodayQuery) Validate(validate *validator.Validate) error {
	tq.Today = core.CleanString(tq.Today)
	return validate.Struct(tq)
}

// QueryFilter narrows QueryPeriods; zero fields match everything.
type QueryFilter struct {
	Day       *Weekday
	SubjectID string
}

// CleanOrdering drops unknown ordering fields.
func CleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	if ordering == nil {
		return nil
	}
	cleaned := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if orderingFields[ord.Field] {
			cleaned = append(cleaned, ord)
		}
	}
	return cleaned
}
