package subject

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eden/core"
)

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Summary is the subject as embedded in other records: no timestamps, no back-references.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

func (s Subject) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name, Code: s.Code}
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,max=16,alphanum_"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	return validate.Struct(ns)
}
