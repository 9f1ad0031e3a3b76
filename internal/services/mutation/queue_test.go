package mutation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueue_SameKeyRunsInOrder(t *testing.T) {
	q := NewQueue(slog.Default())
	defer q.Close()

	first := q.Begin("/wbsItems/w-1")
	second := q.Begin("/wbsItems/w-1")
	assert.Equal(t, uint64(1), first.Generation())
	assert.Equal(t, uint64(2), second.Generation())

	var (
		mu    sync.Mutex
		order []uint64
	)
	record := func(gen uint64) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, gen)
			mu.Unlock()
			return nil
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	// start the later ticket first; it must still wait for the earlier one
	go func() {
		defer wg.Done()
		second.Run(context.Background(), record(2))
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		first.Run(context.Background(), record(1))
	}()
	wg.Wait()

	assert.Equal(t, []uint64{1, 2}, order)
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_DifferentKeysAreIndependent(t *testing.T) {
	q := NewQueue(slog.Default())
	defer q.Close()

	blocked := q.Begin("/wbsItems/w-1")
	other := q.Begin("/wbsItems/w-2")
	assert.Equal(t, uint64(1), other.Generation())

	release := make(chan struct{})
	done := make(chan Result)
	go func() {
		done <- blocked.Run(context.Background(), func(context.Context) error {
			<-release
			return nil
		})
	}()

	res := other.Run(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, res.Err)
	assert.True(t, res.Latest)

	close(release)
	<-done
}

func TestQueue_FailureReportsLatest(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		followUp   bool
		wantLatest bool
	}{
		{name: "only submission", followUp: false, wantLatest: true},
		{name: "superseded", followUp: true, wantLatest: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(slog.Default())
			defer q.Close()

			ticket := q.Begin("/taskStages/A")
			var next *Ticket
			if tt.followUp {
				next = q.Begin("/taskStages/A")
			}

			res := ticket.Run(context.Background(), func(context.Context) error { return boom })
			assert.ErrorIs(t, res.Err, boom)
			assert.Equal(t, "/taskStages/A", res.Key)
			assert.Equal(t, tt.wantLatest, res.Latest)

			if next != nil {
				res := next.Run(context.Background(), func(context.Context) error { return nil })
				assert.True(t, res.Latest)
			}
		})
	}
}

func TestQueue_CanceledWhileWaitingKeepsOrder(t *testing.T) {
	q := NewQueue(slog.Default())
	defer q.Close()

	first := q.Begin("k")
	second := q.Begin("k")
	third := q.Begin("k")

	release := make(chan struct{})
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		first.Run(context.Background(), func(context.Context) error {
			<-release
			return nil
		})
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	res := second.Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, called)
	assert.False(t, res.Latest)

	thirdDone := make(chan Result)
	go func() {
		thirdDone <- third.Run(context.Background(), func(context.Context) error { return nil })
	}()

	select {
	case <-thirdDone:
		t.Fatal("third ran before first finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-firstDone
	res = <-thirdDone
	require.NoError(t, res.Err)
	assert.True(t, res.Latest)
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue(slog.Default())

	ticket := q.Begin("k")
	closed := make(chan struct{})
	go func() {
		q.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned with an outstanding ticket")
	case <-time.After(20 * time.Millisecond):
	}

	ticket.Run(context.Background(), func(context.Context) error { return nil })
	<-closed

	res := q.Begin("k").Run(context.Background(), func(context.Context) error {
		t.Fatal("run after close")
		return nil
	})
	assert.ErrorIs(t, res.Err, ErrClosed)
}
