package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a stored analysis run.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Linkage     string     `json:"linkage"`
	Policy      string     `json:"policy"`
	Listings    int        `json:"listings"`
	Vocabulary  int        `json:"vocabulary"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
