package tasks

import (
	"context"

	"github.com/agentgram/agentgram/internal/config"
)

// ScheduledTaskFunc defines the standard signature for all scheduled
// tasks. The context provided by the scheduler should be respected for
// cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks initializes and returns a map of all registered
// scheduled tasks. The keys match the task names used in the scheduler
// configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[config.TaskTempCleanup] = newTempCleanupTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))

	return tasks
}
