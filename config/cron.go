package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. The catalog sync job is
// registered at startup because it needs the wired sync service.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
