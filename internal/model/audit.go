package model

import "time"

// GenerationEvent records the shape of a generated password. The password
// itself is never stored.
type GenerationEvent struct {
	ID             int64
	Client         string
	Length         int
	Classes        string // comma separated class names
	AvoidAmbiguous bool
	EntropyTier    string
	CreatedAt      time.Time
}

// EntropyStatsResponse reports how many passwords each entropy tier produced.
type EntropyStatsResponse struct {
	Since  time.Time        `json:"since"`
	Counts map[string]int64 `json:"counts"`
}
