package tasks

import (
	"context"
	"fmt"
	"time"
)

// tempFileMaxAge is how long a scratch file may sit in the temp
// directory before the cleanup task considers it leftover from a
// crashed or interrupted download.
const tempFileMaxAge = time.Hour

// newTempCleanupTask creates the scheduled task that removes stale
// scratch files from the temp directory.
func newTempCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "temp_cleanup")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled temp file cleanup...")
		startTime := time.Now()

		removed, err := deps.Files.CleanupOlderThan(tempFileMaxAge)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Temp file cleanup failed", "error", err, "duration", duration)

			return fmt.Errorf("temp file cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Temp file cleanup completed", "removed", removed, "duration", duration)

		return nil
	}
}
