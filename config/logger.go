package config

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logg     *logrus.Logger
	loggOnce sync.Once
)

// GetLogger returns the process-wide logger. JSON output in production,
// text with debug level when DEBUG=true.
func GetLogger() *logrus.Logger {
	loggOnce.Do(func() {
		logg = logrus.New()
		logg.SetOutput(os.Stdout)
		if os.Getenv("APP_ENV") == "production" {
			logg.SetFormatter(&logrus.JSONFormatter{})
		}
		if os.Getenv("DEBUG") == "true" {
			logg.SetLevel(logrus.DebugLevel)
		} else {
			logg.SetLevel(logrus.InfoLevel)
		}
	})
	return logg
}
