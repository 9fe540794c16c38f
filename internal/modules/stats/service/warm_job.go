package service

import "context"

const WarmJobName = "stats-cache-warmer"

// WarmJob keeps the cached document fresh so readers rarely hit the source.
type WarmJob struct {
	cache    *CachedProvider
	schedule string
}

func NewWarmJob(cache *CachedProvider, schedule string) *WarmJob {
	return &WarmJob{cache: cache, schedule: schedule}
}

func (j *WarmJob) GetName() string { return WarmJobName }

func (j *WarmJob) GetSchedule() string { return j.schedule }

func (j *WarmJob) Execute(ctx context.Context) error {
	_, err := j.cache.Refresh(ctx)
	return err
}
