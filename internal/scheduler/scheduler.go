package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a cron schedule.
type Job interface {
	GetName() string
	GetSchedule() string
	Execute(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		jobs: make([]Job, 0),
	}
}

// Register adds a job. Jobs with an empty schedule are kept for RunByName only.
func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.GetSchedule()
	if schedule == "" {
		log.Printf("📝 [%s] Registered as on-demand job (no schedule)", job.GetName())
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Execute(context.Background()); err != nil {
			log.Printf("❌ [%s] Job failed: %v", job.GetName(), err)
		}
	})
	if err != nil {
		return err
	}
	log.Printf("📅 [%s] Scheduled with cron: %s", job.GetName(), schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("🚀 Scheduler started with %d jobs", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Scheduler stopped")
}

// RunByName runs a registered job immediately. Unknown names are a no-op.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.GetName() == name {
			return job.Execute(ctx)
		}
	}
	log.Printf("⚠️ Job with name '%s' not found", name)
	return nil
}

func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.GetName()
	}
	return names
}
