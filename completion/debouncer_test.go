package completion

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurstToTrailingCall(t *testing.T) {
	d := NewDebouncer(80 * time.Millisecond)

	var calls int32
	var wg sync.WaitGroup
	results := make([]string, 3)

	for i := 0; i < 3; i++ {
		arg := fmt.Sprintf("prompt-%d", i)
		wg.Add(1)
		go func(slot int, arg string) {
			defer wg.Done()
			suggestions, err := d.Do(context.Background(), func(context.Context) ([]string, error) {
				atomic.AddInt32(&calls, 1)
				return []string{arg}, nil
			})
			assert.NoError(t, err)
			results[slot] = suggestions[0]
		}(i, arg)
		// stagger submissions so prompt-2 is deterministically last
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := range results {
		assert.Equal(t, "prompt-2", results[i])
	}
}

func TestDebouncerRunsAgainAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var calls int32
	run := func() {
		_, err := d.Do(context.Background(), func(context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		})
		assert.NoError(t, err)
	}

	run()
	run()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDebouncerCancelledCallerUnblocks(t *testing.T) {
	d := NewDebouncer(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := d.Do(ctx, func(context.Context) ([]string, error) {
			return []string{"never"}, nil
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not unblock")
	}
}

func TestDebouncerPropagatesFunctionError(t *testing.T) {
	d := NewDebouncer(5 * time.Millisecond)

	wantErr := assert.AnError
	_, err := d.Do(context.Background(), func(context.Context) ([]string, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
