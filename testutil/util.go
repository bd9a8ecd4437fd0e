package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
)

func CreateSubject(t *testing.T, repo subject.Repository, name, code string, createdAt ...time.Time) subject.Subject {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sbj := subject.Subject{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      code,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	sbj, err := repo.CreateSubject(context.Background(), sbj)
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sbj
}

// CreatePeriod creates a period through svc, for sbj if given or for a fresh subject otherwise.
func CreatePeriod(
	t *testing.T,
	svc *period.Service,
	sbjRepo subject.Repository,
	day, tm string,
	sbj ...subject.Subject,
) period.Period {
	var s subject.Subject
	if len(sbj) > 0 {
		s = sbj[0]
	} else {
		code := "S" + uuid.New().String()[:8]
		s = CreateSubject(t, sbjRepo, "Subject "+code, code)
	}
	p, err := svc.Create(context.Background(), period.NewPeriod{Day: day, Time: tm, Subject: s.ID})
	if err != nil {
		t.Fatalf("CreatePeriod() failed: %v", err)
	}
	return p
}
