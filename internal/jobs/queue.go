// Package jobs runs the background work the API only enqueues: bulk
// catalog imports (the replacement for ad-hoc seed scripts) and stats
// snapshots. Tasks are deduplicated with deterministic IDs so repeated
// admin clicks never stack duplicate jobs.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	TaskImportCatalog = "import:catalog"
	TaskStatsRefresh  = "stats:refresh"
)

// Notifier receives job progress events; the API websocket hub
// implements it.
type Notifier interface {
	Broadcast(event string, data interface{})
}

type Queue struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	inspector *asynq.Inspector
}

func NewQueue(redisAddr string) *Queue {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
		},
	)
	mux := asynq.NewServeMux()
	inspector := asynq.NewInspector(redisOpt)
	return &Queue{client: client, server: server, mux: mux, inspector: inspector}
}

func isTaskConflict(err error) bool {
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "task ID conflicts") || strings.Contains(msg, "duplicate task")
}

// EnqueueUnique enqueues a task with a deterministic TaskID. If the same
// task is already pending or active the enqueue is silently skipped; a
// lingering completed task with the same ID is deleted first.
func (q *Queue) EnqueueUnique(taskType string, payload interface{}, uniqueID string, opts ...asynq.Option) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	opts = append(opts, asynq.TaskID(uniqueID))
	task := asynq.NewTask(taskType, data, opts...)
	info, err := q.client.Enqueue(task)
	if err == nil {
		return info.ID, nil
	}

	if !isTaskConflict(err) {
		return "", fmt.Errorf("enqueue: %w", err)
	}

	// Clear a finished task occupying the ID, then retry once.
	for _, queue := range []string{"default", "low"} {
		_ = q.inspector.DeleteTask(queue, uniqueID)
	}
	info, err = q.client.Enqueue(task)
	if err != nil {
		if isTaskConflict(err) {
			log.Printf("[jobs] task %s already queued, skipping", uniqueID)
			return uniqueID, nil
		}
		return "", fmt.Errorf("enqueue after conflict: %w", err)
	}
	return info.ID, nil
}

func (q *Queue) Handle(taskType string, handler func(context.Context, *asynq.Task) error) {
	q.mux.HandleFunc(taskType, handler)
}

func (q *Queue) Start() error {
	return q.server.Start(q.mux)
}

func (q *Queue) Shutdown() {
	q.server.Shutdown()
	q.client.Close()
}
