package model

import "time"

// Snapshot is the exported form of one table.
type Snapshot struct {
	Table     string    `json:"table"`
	Rows      []Row     `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Seed maps table names to their initial rows.
type Seed map[string][]Row
