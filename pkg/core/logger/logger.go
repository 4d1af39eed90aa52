package logger

import "github.com/sirupsen/logrus"

// Logger is the narrow logging surface trading components depend on.
// The process-wide logrus logger backs all instances.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func WithField(key string, value interface{}) Logger {
	return logrus.WithField(key, value)
}

func WithFields(fields map[string]interface{}) Logger {
	return logrus.WithFields(fields)
}
