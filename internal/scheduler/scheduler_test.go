package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) GetName() string     { return j.name }
func (j *fakeJob) GetSchedule() string { return j.schedule }
func (j *fakeJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_RunByName(t *testing.T) {
	s := NewScheduler(time.UTC)
	warm := &fakeJob{name: "warm", schedule: "@every 1m"}
	manual := &fakeJob{name: "manual", err: errors.New("boom")}

	if err := s.Register(warm); err != nil {
		t.Fatalf("Register warm: %v", err)
	}
	if err := s.Register(manual); err != nil {
		t.Fatalf("Register manual: %v", err)
	}

	if err := s.RunByName(context.Background(), "warm"); err != nil {
		t.Fatalf("RunByName: %v", err)
	}
	if warm.runs != 1 {
		t.Fatalf("runs=%d", warm.runs)
	}
	if err := s.RunByName(context.Background(), "manual"); err == nil {
		t.Fatalf("expected job error")
	}
	if err := s.RunByName(context.Background(), "missing"); err != nil {
		t.Fatalf("unknown job should be a no-op, got %v", err)
	}

	names := s.Jobs()
	if len(names) != 2 || names[0] != "warm" || names[1] != "manual" {
		t.Fatalf("jobs=%v", names)
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(nil)
	if err := s.Register(&fakeJob{name: "bad", schedule: "every now and then"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	if err := s.Register(&fakeJob{name: "warm", schedule: "@every 1h"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	s.Start()
	s.Stop()
}
