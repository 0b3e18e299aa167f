// Package scheduler owns the recurring jobs: the nightly stats refresh
// enqueue and an hourly trending cache warmup. It only schedules; the
// heavy work runs on the task queue.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yemenflix/yemenflix-server/internal/catalog"
	"github.com/yemenflix/yemenflix-server/internal/jobs"
	"github.com/yemenflix/yemenflix-server/internal/models"
)

type Scheduler struct {
	cron    *cron.Cron
	queue   *jobs.Queue
	catalog *catalog.Service
}

func New(queue *jobs.Queue, catalogSvc *catalog.Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		queue:   queue,
		catalog: catalogSvc,
	}
}

func (s *Scheduler) Start() error {
	// 03:10 server time, after the day's imports have usually landed.
	if _, err := s.cron.AddFunc("10 3 * * *", s.enqueueStatsRefresh); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.warmTrending); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("[scheduler] started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) enqueueStatsRefresh() {
	day := time.Now().Format("2006-01-02")
	if _, err := s.queue.EnqueueUnique(jobs.TaskStatsRefresh, nil, "stats:refresh:"+day); err != nil {
		log.Printf("[scheduler] stats refresh enqueue failed: %v", err)
	}
}

// warmTrending pre-fills the listing cache for the home page rails so the
// first visitor after an invalidation never pays the query cost.
func (s *Scheduler) warmTrending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	types := []models.ContentType{
		models.ContentTypeMovie, models.ContentTypeSeries,
		models.ContentTypeTV, models.ContentTypeMisc,
	}
	for _, t := range types {
		if _, err := s.catalog.Trending(ctx, string(t), 12); err != nil {
			log.Printf("[scheduler] trending warmup for %s failed: %v", t, err)
		}
	}
}
