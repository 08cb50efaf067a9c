package countries

import (
	"context"
	"sync"
)

// JobManager tracks the in-flight search of each client so that a newer
// search can cancel the stale one.
type JobManager struct {
	mu   sync.Mutex
	next uint64
	jobs map[string]job
}

type job struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// NewJobManager creates a new JobManager instance.
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]job)}
}

// Begin registers a search for key, cancelling any earlier one with ErrSuperseded.
// The returned done func must be called when the search finishes; it only
// unregisters the job if no newer search replaced it.
func (jm *JobManager) Begin(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	jm.mu.Lock()
	if prev, ok := jm.jobs[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	jm.next++
	id := jm.next
	jm.jobs[key] = job{id: id, cancel: cancel}
	jm.mu.Unlock()

	done := func() {
		jm.mu.Lock()
		if cur, ok := jm.jobs[key]; ok && cur.id == id {
			delete(jm.jobs, key)
		}
		jm.mu.Unlock()
		cancel(nil)
	}
	return ctx, done
}

// CancelAll cancels every registered search, used on shutdown.
func (jm *JobManager) CancelAll(cause error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	for key, j := range jm.jobs {
		j.cancel(cause)
		delete(jm.jobs, key)
	}
}
