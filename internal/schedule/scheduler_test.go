package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	block chan struct{}
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		<-j.block
	}
	return nil
}

func TestWrapRunsJob(t *testing.T) {
	scheduler := NewCronScheduler()
	job := &countingJob{name: "cleanup"}

	scheduler.wrap(job)()
	require.Equal(t, int32(1), job.runs.Load())
}

func TestWrapSkipsOverlappingRun(t *testing.T) {
	scheduler := NewCronScheduler()
	job := &countingJob{name: "cleanup", block: make(chan struct{})}
	wrapped := scheduler.wrap(job)

	done := make(chan struct{})
	go func() {
		wrapped()
		close(done)
	}()
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	wrapped()
	require.Equal(t, int32(1), job.runs.Load())

	close(job.block)
	<-done
}

func TestAddJobRejectsInvalidSpec(t *testing.T) {
	scheduler := NewCronScheduler()
	require.Error(t, scheduler.AddJob(&countingJob{name: "cleanup"}, "every day at dawn"))
	require.NoError(t, scheduler.AddJob(&countingJob{name: "cleanup"}, "0 3 * * *"))
}
