package utils

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// GetLogger returns the shared application logger. Format and level come
// from LOG_FORMAT / LOG_LEVEL; defaults are JSON at info level.
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)

		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			logger.SetFormatter(&logrus.JSONFormatter{})
		}

		if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			logger.SetLevel(level)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	})
	return logger
}

// LogWithRequestID returns a logger entry tagged with the request ID.
func LogWithRequestID(requestID string) *logrus.Entry {
	return GetLogger().WithField("request_id", requestID)
}
