package cron

import (
	"github.com/robfig/cron/v3"

	"stroyassist.GO/config"
)

// StartCron schedules the static config jobs, the init-registered jobs
// and the runtime jobs wired at startup (jobs that need constructed
// services, like the catalog sync). Returns the running scheduler.
func StartCron(runtime map[string]config.CronJob) *cron.Cron {
	log := config.GetLogger()
	c := cron.New()
	addJobs := func(jobMap map[string]config.CronJob) {
		for name, cronJob := range jobMap {
			jobFunc := cronJob.Job
			_, err := c.AddFunc(cronJob.Schedule, func() { jobFunc() })
			if err != nil {
				log.Fatalf("Failed to register job %s: %v", name, err)
			}
		}
	}
	addJobs(config.CronJobs)
	addJobs(runtime)
	for name, j := range Jobs() {
		run := j.Run
		sched := j.Schedule
		_, err := c.AddFunc(sched, func() { run() })
		if err != nil {
			log.Fatalf("Failed to register job %s: %v", name, err)
		}
	}
	c.Start()
	return c
}
