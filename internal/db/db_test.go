package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	for _, status := range []string{StatusRunning, StatusCompleted, StatusFailed} {
		assert.NotEmpty(t, status)
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		Linkage: "average",
		Policy:  "extend",
		Status:  StatusRunning,
	}

	assert.Equal(t, "average", run.Linkage)
	assert.Equal(t, "extend", run.Policy)
	assert.Nil(t, run.CompletedAt)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-database-url")
	assert.Error(t, err)
}
