package api

import (
	"salespulse/pkg/contracts/domain"
)

// YearsResponse lists the distinct years of the monthly dataset
type YearsResponse struct {
	Years   []int `json:"years"`
	Default int   `json:"default"`
}

// DatasetsResponse describes the default dataset files and the cache
type DatasetsResponse struct {
	DataDir  string                 `json:"data_dir"`
	Datasets []domain.DatasetStatus `json:"datasets"`
	Cache    CacheInfo              `json:"cache"`
}

// CacheInfo mirrors the dataset cache counters
type CacheInfo struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRatio   float64 `json:"hit_ratio"`
}

// CacheClearResponse reports a cache clear
type CacheClearResponse struct {
	Cleared  int `json:"cleared"`
	Notified int `json:"notified_clients"`
}
