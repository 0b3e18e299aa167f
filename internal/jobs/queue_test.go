package jobs

import (
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

func TestIsTaskConflict(t *testing.T) {
	if !isTaskConflict(asynq.ErrDuplicateTask) {
		t.Error("ErrDuplicateTask should be a conflict")
	}
	if !isTaskConflict(asynq.ErrTaskIDConflict) {
		t.Error("ErrTaskIDConflict should be a conflict")
	}
	if !isTaskConflict(errors.New("task ID conflicts with another task")) {
		t.Error("wrapped conflict message should be a conflict")
	}
	if isTaskConflict(errors.New("redis: connection refused")) {
		t.Error("unrelated error misclassified as conflict")
	}
}
