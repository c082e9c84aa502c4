package dto

type StatsResponse struct {
	CacheEntries   int    `json:"cache_entries"`
	CacheCapacity  int    `json:"cache_capacity"`
	CacheHits      uint64 `json:"cache_hits"`
	CacheMisses    uint64 `json:"cache_misses"`
	CacheEvictions uint64 `json:"cache_evictions"`
	QueueDepth     int    `json:"queue_depth"`
	Workers        int    `json:"workers"`
}
