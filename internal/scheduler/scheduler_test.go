package scheduler

import (
	"context"
	"testing"
	"time"
)

type fakeCompleter struct{ calls chan struct{} }

func (f fakeCompleter) CompleteFinished(ctx context.Context) (int64, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestCompletionJobRunsImmediately(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := fakeCompleter{calls: make(chan struct{}, 1)}
	id, err := s.AddCompletionJob(f, time.Hour, time.Second)
	if err != nil {
		t.Fatalf("AddCompletionJob: %v", err)
	}
	if id == "" {
		t.Fatalf("empty job id")
	}
	s.Start()
	defer s.Shutdown()

	select {
	case <-f.calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("completion job did not run")
	}
}
