package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	all := []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusProcessing,
		domain.TaskStatusCompleted,
		domain.TaskStatusFailed,
	}

	legal := map[domain.TaskStatus]map[domain.TaskStatus]bool{
		domain.TaskStatusPending:    {domain.TaskStatusProcessing: true},
		domain.TaskStatusProcessing: {domain.TaskStatusCompleted: true, domain.TaskStatusFailed: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.TaskStatusPending.IsTerminal())
	assert.False(t, domain.TaskStatusProcessing.IsTerminal())
	assert.True(t, domain.TaskStatusCompleted.IsTerminal())
	assert.True(t, domain.TaskStatusFailed.IsTerminal())
}
