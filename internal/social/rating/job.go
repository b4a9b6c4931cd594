// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import "github.com/taibuivan/stargazer/internal/platform/scheduler"

// RefreshJobName identifies the summary refresh in the scheduler.
const RefreshJobName = "rating_summary_refresh"

// RefreshJob wraps [Service.RefreshSummaries] as a cron job.
func (service *Service) RefreshJob(schedule string) scheduler.Job {
	return scheduler.Job{
		Name:     RefreshJobName,
		Schedule: schedule,
		Run:      service.RefreshSummaries,
	}
}
