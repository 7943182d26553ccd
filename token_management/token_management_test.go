package token_management

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager_RecordRequestAccumulates(t *testing.T) {
	tm := NewTokenManager()

	tm.RecordRequest(400, 80)
	tm.RecordRequest(200, 40)

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 150, input)
	assert.Equal(t, 30, output)
	assert.Equal(t, 180, total)

	requests, cacheHits, rateLimited := tm.GetSessionStats()
	assert.EqualValues(t, 2, requests)
	assert.EqualValues(t, 0, cacheHits)
	assert.EqualValues(t, 0, rateLimited)
}

func TestTokenManager_ClearUsageResetsCounters(t *testing.T) {
	tm := NewTokenManager()
	tm.RecordRequest(1000, 1000)
	tm.RecordCacheHit()
	tm.RecordRateLimited()

	tm.ClearUsage()

	total, _, _ := tm.GetCurrentTokenUsage()
	requests, cacheHits, rateLimited := tm.GetSessionStats()
	assert.Equal(t, 0, total)
	assert.EqualValues(t, 0, requests)
	assert.EqualValues(t, 0, cacheHits)
	assert.EqualValues(t, 0, rateLimited)
}

func TestTokenManager_ConcurrentRecording(t *testing.T) {
	tm := NewTokenManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.RecordRequest(4, 4)
			tm.RecordCacheHit()
		}()
	}
	wg.Wait()

	total, input, output := tm.GetCurrentTokenUsage()
	assert.Equal(t, 50, input)
	assert.Equal(t, 50, output)
	assert.Equal(t, 100, total)

	_, cacheHits, _ := tm.GetSessionStats()
	assert.EqualValues(t, 50, cacheHits)
}
