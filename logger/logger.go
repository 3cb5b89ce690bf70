package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger. When logFilePath is
// empty or cannot be opened, logs go to stdout.
func InitLogger(level, logFilePath string) {
	logrus.SetOutput(os.Stdout)
	if logFilePath != "" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file (%s), using stdout: %v", logFilePath, err)
		} else {
			logrus.SetOutput(logFile)
		}
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	logrus.Info("Logger initialized")
}
