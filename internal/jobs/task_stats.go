package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/yemenflix/yemenflix-server/internal/repository"
)

// StatsRefresher recomputes the nightly catalog snapshot: per-type counts
// persisted into settings (so the admin dashboard has a value even when
// redis is cold) and a search_text rebuild to pick up fold config changes.
type StatsRefresher struct {
	db          *sql.DB
	contentRepo *repository.ContentRepository
	invalidator Invalidator
}

func NewStatsRefresher(db *sql.DB, contentRepo *repository.ContentRepository, inv Invalidator) *StatsRefresher {
	return &StatsRefresher{db: db, contentRepo: contentRepo, invalidator: inv}
}

func (s *StatsRefresher) HandleRefresh(ctx context.Context, task *asynq.Task) error {
	stats, err := s.contentRepo.StatsByType(ctx)
	if err != nil {
		return fmt.Errorf("stats snapshot: %w", err)
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ('stats_snapshot', $1, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		string(data))
	if err != nil {
		return fmt.Errorf("persist stats snapshot: %w", err)
	}

	start := time.Now()
	updated, err := s.contentRepo.RefreshSearchText(ctx)
	if err != nil {
		return fmt.Errorf("search text rebuild: %w", err)
	}
	log.Printf("[jobs] stats refresh done: %d types, %d search rows in %s",
		len(stats), updated, time.Since(start).Round(time.Millisecond))

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}
