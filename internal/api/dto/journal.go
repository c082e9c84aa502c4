package dto

import "time"

type JournalEntryResponse struct {
	ID                string    `json:"id"`
	Fingerprint       string    `json:"fingerprint"`
	CityCount         int       `json:"city_count"`
	InitialDistance   float64   `json:"initial_distance"`
	OptimizedDistance float64   `json:"optimized_distance"`
	OptimizationMs    float64   `json:"optimization_ms"`
	Transport         string    `json:"transport"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListJournalResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
}
