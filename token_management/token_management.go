package token_management

import (
	"fmt"
	"sync"

	"github.com/bernabedev/autogem/constants/lipgloss"
	"github.com/bernabedev/autogem/token_management/contracts"
)

// approxCharsPerToken is the cheap token estimate used for the usage display.
// Good enough for a session summary; the API bills on its own count.
const approxCharsPerToken = 4

// tokenManager implementation
type tokenManager struct {
	mu               sync.Mutex
	usedInputChars   int
	usedOutputChars  int
	requestTotal     int64
	cacheHitTotal    int64
	rateLimitedTotal int64
}

// NewTokenManager creates a new token manager.
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// RecordRequest accumulates the prompt/response sizes of one upstream call.
func (tm *tokenManager) RecordRequest(promptChars int, responseChars int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.requestTotal++
	tm.usedInputChars += promptChars
	tm.usedOutputChars += responseChars
}

func (tm *tokenManager) RecordCacheHit() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cacheHitTotal++
}

func (tm *tokenManager) RecordRateLimited() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.rateLimitedTotal++
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	input = tm.usedInputChars / approxCharsPerToken
	output = tm.usedOutputChars / approxCharsPerToken
	return input + output, input, output
}

func (tm *tokenManager) GetSessionStats() (requests int64, cacheHits int64, rateLimited int64) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.requestTotal, tm.cacheHitTotal, tm.rateLimitedTotal
}

// DisplayUsage prints the session usage summary inside a styled box.
func (tm *tokenManager) DisplayUsage(providerName string, model string) {
	total, input, output := tm.GetCurrentTokenUsage()
	requests, cacheHits, rateLimited := tm.GetSessionStats()

	usageInfo := fmt.Sprintf(
		"Requests: %d - Cache Hits: %d - Rate Limited: %d - Tokens: %d (in: %d / out: %d) - Model: %s/%s",
		requests, cacheHits, rateLimited, total, input, output, providerName, model)

	usageBox := lipgloss.BoxStyle.Render(usageInfo)
	fmt.Println(usageBox)
}

func (tm *tokenManager) ClearUsage() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.usedInputChars = 0
	tm.usedOutputChars = 0
	tm.requestTotal = 0
	tm.cacheHitTotal = 0
	tm.rateLimitedTotal = 0
}
