// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"log/slog"

	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	"github.com/taibuivan/stargazer/internal/platform/scheduler"
)

// PruneJobName identifies the in-memory position sweep in the scheduler.
const PruneJobName = "reading_position_prune"

// PruneJob wraps [MemoryStorage.Prune] as a cron job. Redis expires keys on
// its own and needs no equivalent.
func (storage *MemoryStorage) PruneJob(schedule string) scheduler.Job {
	return scheduler.Job{
		Name:     PruneJobName,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			removed, err := storage.Prune(ctx)
			if err != nil {
				return err
			}
			ctxutil.GetLogger(ctx).Info("reading_positions_pruned", slog.Int("removed", removed))
			return nil
		},
	}
}
