package worker

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	id   string
	wg   *sync.WaitGroup
	mu   *sync.Mutex
	seen map[string]bool
}

func (j *countingJob) ID() string { return j.id }

func (j *countingJob) Execute() error {
	j.mu.Lock()
	j.seen[j.id] = true
	j.mu.Unlock()
	j.wg.Done()
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsSubmittedJobs(t *testing.T) {
	d := NewDispatcher(3, 16, testLogger())
	d.Run()
	defer d.Stop()

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]bool{}

	wg.Add(n)
	for i := 0; i < n; i++ {
		job := &countingJob{id: fmt.Sprintf("job_%d", i), wg: &wg, mu: &mu, seen: seen}
		require.NoError(t, d.Submit(job))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, n)
}

type noopJob struct{ id string }

func (j *noopJob) ID() string     { return j.id }
func (j *noopJob) Execute() error { return nil }

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	// Not started: nothing drains the queue, so the buffer limit is exact.
	d := NewDispatcher(1, 2, testLogger())

	require.NoError(t, d.Submit(&noopJob{id: "a"}))
	require.NoError(t, d.Submit(&noopJob{id: "b"}))
	assert.ErrorIs(t, d.Submit(&noopJob{id: "c"}), ErrQueueFull)
}
