package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePurger struct {
	retention string
	limit     int
	deleted   int
	err       error
}

func (f *fakePurger) PurgeStale(_ context.Context, retentionRunID string, limit int) (int, error) {
	f.retention = retentionRunID
	f.limit = limit
	return f.deleted, f.err
}

func TestPurgeTask(t *testing.T) {
	purger := &fakePurger{deleted: 42}
	task := NewPurgeTask(purger, "20240101T000000Z", 500, zaptest.NewLogger(t))
	require.NoError(t, task(context.Background()))
	assert.Equal(t, "20240101T000000Z", purger.retention)
	assert.Equal(t, 500, purger.limit)
}

func TestPurgeTaskSkipsWithoutRetention(t *testing.T) {
	purger := &fakePurger{err: errors.New("should not be called")}
	task := NewPurgeTask(purger, "", 0, nil)
	assert.NoError(t, task(context.Background()))
	assert.Empty(t, purger.retention)
}

func TestPurgeTaskPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	task := NewPurgeTask(&fakePurger{err: boom}, "r", 0, nil)
	assert.ErrorIs(t, task(context.Background()), boom)
}

func TestSchedulerRunOnceSkipsWhenBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := NewScheduler("purge", "", func(context.Context) error {
		close(started)
		<-release
		return nil
	}, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.RunOnce()
	}()
	<-started
	assert.ErrorIs(t, s.RunOnce(), ErrBusy)
	close(release)
	wg.Wait()
}

func TestSchedulerStartAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler("purge", "@every 1h", func(context.Context) error { return nil }, zaptest.NewLogger(t))
	stop := s.Start(ctx)
	stop()
	// 重复 stop 不应阻塞
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stop blocked")
	}
}

func TestSchedulerInvalidSpec(t *testing.T) {
	s := NewScheduler("purge", "not a cron", func(context.Context) error { return nil }, nil)
	stop := s.Start(context.Background())
	stop()
}
