package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Execute(ctx context.Context) (int, error) {
	j.runs.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a bounded context")
	}
	return 1, j.err
}

func TestSchedulerManager_PublishJobStartsImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{}
	require.NoError(t, m.RegisterPublishJob(job, time.Hour, time.Second))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "knowledgebase-publish", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}

func TestSchedulerManager_StartStopIdempotent(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	assert.NoError(t, m.Stop())
	m.Start()
	m.Start()
	assert.NoError(t, m.Stop())
	assert.NoError(t, m.Stop())
}

func TestSchedulerManager_FailingJobKeepsScheduling(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{err: errors.New("storage unavailable")}
	require.NoError(t, m.RegisterPublishJob(job, 50*time.Millisecond, time.Second))
	m.Start()
	t.Cleanup(func() { _ = m.Stop() })

	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
