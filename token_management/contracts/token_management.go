package contracts

// ITokenManagement accumulates per-session usage counters. Implementations
// must be safe for concurrent use; the pipeline records from whichever
// goroutine resolved the request.
type ITokenManagement interface {
	// RecordRequest accumulates the size of one upstream call.
	RecordRequest(promptChars int, responseChars int)
	// RecordCacheHit counts a completion served from the suggestion cache.
	RecordCacheHit()
	// RecordRateLimited counts a request refused by the rate ceiling.
	RecordRateLimited()
	// GetCurrentTokenUsage returns approximate token totals (4 chars/token).
	GetCurrentTokenUsage() (total int, input int, output int)
	GetSessionStats() (requests int64, cacheHits int64, rateLimited int64)
	DisplayUsage(providerName string, model string)
	ClearUsage()
}
